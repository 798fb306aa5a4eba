package obo

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ontoloviz/ontoloviz/pkg/cache"
	"github.com/ontoloviz/ontoloviz/pkg/errors"
	"github.com/ontoloviz/ontoloviz/pkg/httputil"
	"github.com/ontoloviz/ontoloviz/pkg/observability"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

// Client downloads OBO files through a cache.
type Client struct {
	Fetcher *httputil.Fetcher
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger

	// Refresh skips cache reads; fresh downloads are still stored.
	Refresh bool
}

// NewClient creates a client. A nil cache disables caching and a nil
// logger discards output.
func NewClient(c cache.Cache, logger *log.Logger) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Client{
		Fetcher: &httputil.Fetcher{},
		Cache:   c,
		Keyer:   cache.NewDefaultKeyer(),
		Logger:  logger,
	}
}

// Download returns the raw OBO file of e, from the cache when possible.
func (c *Client) Download(ctx context.Context, e Entry) ([]byte, bool, error) {
	if err := errors.ValidateURL(e.URL); err != nil {
		return nil, false, err
	}
	key := c.Keyer.OntologyKey(e.Key, e.URL)

	if !c.Refresh {
		data, hit, err := c.Cache.Get(ctx, key)
		if err != nil {
			c.Logger.Warn("cache read failed", "ontology", e.Key, "err", err)
		} else if hit {
			observability.Cache().OnCacheHit(ctx, "obo")
			c.Logger.Debug("ontology cache hit", "ontology", e.Key, "bytes", len(data))
			return data, true, nil
		}
	}

	observability.Cache().OnCacheMiss(ctx, "obo")
	start := time.Now()
	c.Logger.Info("downloading ontology", "ontology", e.Key, "url", e.URL)
	data, err := c.Fetcher.Get(ctx, e.URL)
	if err != nil {
		return nil, false, classify(ctx, e, err)
	}
	c.Logger.Info("downloaded ontology", "ontology", e.Key, "bytes", len(data), "duration", time.Since(start))

	if err := c.Cache.Set(ctx, key, data, cache.TTLOntology); err != nil {
		c.Logger.Warn("cache write failed", "ontology", e.Key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "obo", len(data))
	}
	return data, false, nil
}

// Terms downloads and parses the terms of e.
func (c *Client) Terms(ctx context.Context, e Entry) ([]*Term, error) {
	data, _, err := c.Download(ctx, e)
	if err != nil {
		return nil, err
	}
	terms, err := Parse(bytes.NewReader(data), ParseOptions{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", e.Key)
	}
	c.Logger.Debug("parsed ontology", "ontology", e.Key, "terms", len(terms))
	return terms, nil
}

// Forest downloads, parses and builds the forest of e.
func (c *Client) Forest(ctx context.Context, e Entry) (*ontology.Forest, error) {
	terms, err := c.Terms(ctx, e)
	if err != nil {
		return nil, err
	}
	f, summary, err := Build(ctx, terms, e)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("built ontology", "ontology", e.Key, "branches", f.Len(), "nodes", f.NodeCount(), "fan_out", summary.FanOut+summary.Duplicates)
	return f, nil
}

func classify(ctx context.Context, e Entry, err error) error {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "download %s", e.Key)
	case stderrors.Is(err, context.Canceled):
		return err
	case stderrors.Is(err, httputil.ErrNotFound):
		return errors.Wrap(errors.ErrCodeOntologyNotFound, err, "download %s", e.Key)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "download %s", e.Key)
}
