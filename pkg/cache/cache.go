// Package cache stores downloaded ontology files and built forests.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON envelope per key under a local directory, used by
//     the CLI (~/.cache/ontoloviz by default)
//   - [RedisCache]: a shared Redis instance, used when several API servers
//     serve the same ontologies
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are produced by a [Keyer] so every caller agrees on the layout of the
// key space. Values are opaque bytes; callers choose their own encoding.
package cache

import (
	"context"
	"time"
)

// Cache time-to-live values.
const (
	// TTLOntology applies to downloaded OBO files. Public ontologies are
	// released at most weekly.
	TTLOntology = 7 * 24 * time.Hour

	// TTLBuild applies to built forests keyed by input and configuration.
	TTLBuild = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. A ttl of zero on Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// BuildKeyOpts holds the inputs of a build that change its output.
type BuildKeyOpts struct {
	Source string `json:"source"`
	Config string `json:"config"`
}

// Keyer generates cache keys.
type Keyer interface {
	// HTTPKey identifies a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// OntologyKey identifies the downloaded OBO file of a catalogue entry.
	OntologyKey(name, url string) string

	// BuildKey identifies a built forest.
	BuildKey(inputHash string, opts BuildKeyOpts) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// OntologyKey returns "obo:<name>:<hash of url>".
func (DefaultKeyer) OntologyKey(name, url string) string {
	return hashKey("obo:"+name, url)
}

// BuildKey returns "build:<hash of input hash and options>".
func (DefaultKeyer) BuildKey(inputHash string, opts BuildKeyOpts) string {
	return hashKey("build", inputHash, opts)
}
