package cache

// ScopedKeyer prefixes every key produced by another Keyer. The server uses
// it so its entries stay apart from CLI runs sharing the same backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a Keyer that prepends prefix to the keys of inner,
// or of the default keyer when inner is nil. Scoping a ScopedKeyer again
// joins the prefixes.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	switch k := inner.(type) {
	case nil:
		inner = NewDefaultKeyer()
	case *ScopedKeyer:
		return &ScopedKeyer{inner: k.inner, prefix: prefix + k.prefix}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the prefix added to every key.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

func (k *ScopedKeyer) GeometryKey(path, stamp string) string {
	return k.prefix + k.inner.GeometryKey(path, stamp)
}

func (k *ScopedKeyer) ArtifactKey(svgHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(svgHash, opts)
}
