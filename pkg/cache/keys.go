package cache

// ArtifactKeyOpts captures the render options that change artifact bytes for
// the same plan.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Thumbnail bool   `json:"thumbnail,omitempty"`
	ThumbEdge int    `json:"thumb_edge,omitempty"`
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// DigitsKey keys a generated digit stream by its precision.
	DigitsKey(precision int) string

	// PlanKey keys a composed plan by the hash of its configuration.
	PlanKey(configHash string) string

	// ArtifactKey keys a rendered artifact by the plan hash and the render
	// options that affect output bytes.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256. Two runs with the same
// inputs always derive the same keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// DigitsKey implements Keyer.
func (k *DefaultKeyer) DigitsKey(precision int) string {
	return hashKey("digits", precision)
}

// PlanKey implements Keyer.
func (k *DefaultKeyer) PlanKey(configHash string) string {
	return hashKey("plan", configHash)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
