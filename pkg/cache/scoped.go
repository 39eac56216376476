package cache

import "strconv"

// ScopedKeyer prefixes the keys of an inner [Keyer]. With derivedOnly set
// only layout and artifact keys are prefixed, so fetched sources stay
// valid across a scope change.
type ScopedKeyer struct {
	inner       Keyer
	prefix      string
	derivedOnly bool
}

// NewScopedKeyer prefixes every key, for deployments sharing one Redis
// database:
//
//	keyer := cache.NewScopedKeyer(nil, "staging:")
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// NewVersionedKeyer scopes layout and artifact keys by the layout format
// version. Bumping the version orphans cached layouts without refetching
// any description.
func NewVersionedKeyer(inner Keyer, version int) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: "v" + strconv.Itoa(version) + ":", derivedOnly: true}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	if k.derivedOnly {
		return k.inner.HTTPKey(namespace, key)
	}
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) LayoutKey(textHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(textHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
