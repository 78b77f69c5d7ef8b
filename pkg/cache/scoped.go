package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating key namespaces when one
// backend serves several deployments (for example a staging and a production
// server sharing one Redis).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
// A nil inner falls back to the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DigitsKey generates a prefixed digit-stream key.
func (k *ScopedKeyer) DigitsKey(precision int) string {
	return k.prefix + k.inner.DigitsKey(precision)
}

// PlanKey generates a prefixed plan key.
func (k *ScopedKeyer) PlanKey(configHash string) string {
	return k.prefix + k.inner.PlanKey(configHash)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(planHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
