// Package pipeline orchestrates the complete poster run.
//
// The staged flow is layout → digits → locate → compose → render. Layout runs
// first because page capacity decides the digit count when no precision is
// forced; digit generation and artifact rendering are the expensive stages
// and flow through the cache. CLI and HTTP server both drive the same Runner,
// so behavior and caching stay identical across entry points.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Config:  poster.Default(),
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mkoster/pibauhaus/pkg/cache"
	"github.com/mkoster/pibauhaus/pkg/compose"
	"github.com/mkoster/pibauhaus/pkg/digits"
	"github.com/mkoster/pibauhaus/pkg/errors"
	"github.com/mkoster/pibauhaus/pkg/poster"
)

// Format constants for output artifacts.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Config is the poster description. A zero Precision fills the page.
	Config poster.Config `json:"config"`

	// Formats are the artifact formats to render.
	Formats []string `json:"formats,omitempty"`

	// Thumbnail adds a downscaled PNG preview to the artifacts under the
	// "thumb" key. Implies rendering a PNG internally.
	Thumbnail bool `json:"thumbnail,omitempty"`

	// ThumbEdge is the thumbnail bounding-box edge in pixels.
	ThumbEdge int `json:"thumb_edge,omitempty"`

	// Refresh bypasses cache reads, recomputing and restoring entries.
	Refresh bool `json:"refresh,omitempty"`

	// Logger for stage progress. Defaults to a discard logger.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the options and applies defaults. The method
// is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if err := o.Config.Validate(); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.ThumbEdge < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "thumbnail edge must be positive, got %d", o.ThumbEdge)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// ConfigHash returns the canonical hash of the poster configuration, the
// cache identity for plans and everything downstream.
func (o *Options) ConfigHash() (string, error) {
	data, err := json.Marshal(o.Config)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hashing config")
	}
	return cache.Hash(data), nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution. It appears in logs and
	// HTTP headers but never inside artifacts, keeping artifact bytes
	// identical across runs.
	RunID string

	// Plan is the composed drawing plan.
	Plan *compose.Plan

	// Feynman is the located run of six nines, when present.
	Feynman *digits.Run

	// Meta echoes the resolved poster parameters.
	Meta poster.Metadata

	// Artifacts holds rendered outputs keyed by format ("svg", "png",
	// "json", and "thumb" when a thumbnail was requested).
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Precision   int // digits generated
	CellsPlaced int // digits actually on the page

	LayoutTime  time.Duration
	DigitsTime  time.Duration
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	DigitsHit bool // digit stream came from cache
	RenderHit bool // all artifacts came from cache
}
