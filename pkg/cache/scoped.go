package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis instance without reading each other's entries.
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// OntologyKey generates a prefixed key for downloaded ontology files.
func (k *ScopedKeyer) OntologyKey(name, url string) string {
	return k.prefix + k.inner.OntologyKey(name, url)
}

// BuildKey generates a prefixed key for built forests.
func (k *ScopedKeyer) BuildKey(inputHash string, opts BuildKeyOpts) string {
	return k.prefix + k.inner.BuildKey(inputHash, opts)
}
