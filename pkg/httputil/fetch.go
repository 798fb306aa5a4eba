package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ontoloviz/ontoloviz/pkg/buildinfo"
	"github.com/ontoloviz/ontoloviz/pkg/observability"
)

// Defaults for [Fetcher].
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
	DefaultTimeout  = 5 * time.Minute

	// DefaultMaxBytes bounds a response body. The largest catalogue
	// ontology (ChEBI) is a few hundred megabytes uncompressed.
	DefaultMaxBytes = 1 << 30
)

// ErrNotFound is returned for 404 and 410 responses.
var ErrNotFound = errors.New("resource not found")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Fetcher downloads whole documents over HTTP with retries.
// The zero value is usable and applies the package defaults.
type Fetcher struct {
	Client   *http.Client
	Attempts int
	Delay    time.Duration
	MaxBytes int64
}

// Get downloads url and returns the body. Network errors, 429 and 5xx
// responses are retried; 404 and 410 map to [ErrNotFound].
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	attempts := f.Attempts
	if attempts == 0 {
		attempts = DefaultAttempts
	}
	delay := f.Delay
	if delay == 0 {
		delay = DefaultDelay
	}
	limit := f.MaxBytes
	if limit == 0 {
		limit = DefaultMaxBytes
	}

	var body []byte
	err := Retry(ctx, attempts, delay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", buildinfo.UserAgent())

		hooks := observability.HTTP()
		host, path := req.URL.Host, req.URL.Path
		hooks.OnRequest(ctx, req.Method, host, path)
		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			hooks.OnError(ctx, req.Method, host, path, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return Retryable(err)
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
			return fmt.Errorf("%w: %s", ErrNotFound, url)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return Retryable(&StatusError{URL: url, StatusCode: resp.StatusCode})
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return &StatusError{URL: url, StatusCode: resp.StatusCode}
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, limit+1))
		if err != nil {
			return Retryable(fmt.Errorf("read body: %w", err))
		}
		if int64(len(body)) > limit {
			return fmt.Errorf("GET %s: body exceeds %d bytes", url, limit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
