package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each deployment or
// tenant sharing a Redis or MongoDB cache its own namespace.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey generates a prefixed key for concentration results.
func (k *ScopedKeyer) ResultKey(docHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(docHash, opts)
}

// FetchKey generates a prefixed key for query results.
func (k *ScopedKeyer) FetchKey(database, query string) string {
	return k.prefix + k.inner.FetchKey(database, query)
}
