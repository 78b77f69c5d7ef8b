package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mkoster/pibauhaus/pkg/cache"
	"github.com/mkoster/pibauhaus/pkg/compose"
	"github.com/mkoster/pibauhaus/pkg/digits"
	"github.com/mkoster/pibauhaus/pkg/errors"
	"github.com/mkoster/pibauhaus/pkg/layout"
	"github.com/mkoster/pibauhaus/pkg/observability"
)

// Runner executes the poster pipeline with caching. It is stateless apart
// from the cache and logger, so one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses the DefaultKeyer; a nil cache
// disables caching; a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete layout → digits → locate → compose → render
// pipeline. Failures are stage-tagged so callers can report which part of the
// run broke.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: layout. Runs before digits because page capacity decides
	// the precision when none is forced.
	layoutStart := time.Now()
	observability.Pipeline().OnStageStart(observability.StageLayout)
	lay, err := layout.Build(opts.Config)
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnStageComplete(observability.StageLayout, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, errors.Wrap(stageCode(err), err, "layout")
	}

	precision := opts.Config.Precision
	if precision == 0 {
		precision = lay.Capacity()
	}
	result.Stats.Precision = precision

	logger.Info("placed grid",
		"capacity", lay.Capacity(),
		"precision", precision,
		"duration", result.Stats.LayoutTime)

	// Stage 2: digits (cached).
	digitsStart := time.Now()
	observability.Pipeline().OnStageStart(observability.StageDigits)
	stream, digitsHit, err := r.DigitsWithCacheInfo(ctx, precision, opts.Refresh)
	result.Stats.DigitsTime = time.Since(digitsStart)
	observability.Pipeline().OnStageComplete(observability.StageDigits, result.Stats.DigitsTime, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGeneration, err, "digits")
	}
	result.CacheInfo.DigitsHit = digitsHit

	logger.Info("generated digits",
		"count", stream.Len(),
		"cached", digitsHit,
		"duration", result.Stats.DigitsTime)

	// Stage 3: locate the six-nines run. Absence is an ordinary outcome.
	if run, found := digits.LocateFeynman(stream); found {
		result.Feynman = &run
		logger.Info("located feynman point", "start", run.Start, "end", run.End)
	} else {
		logger.Info("no feynman point within precision", "precision", stream.Len())
	}

	// Stage 4: compose (cached by config hash).
	composeStart := time.Now()
	observability.Pipeline().OnStageStart(observability.StageCompose)
	plan, err := r.composePlan(ctx, lay, stream, result.Feynman, opts)
	result.Stats.ComposeTime = time.Since(composeStart)
	observability.Pipeline().OnStageComplete(observability.StageCompose, result.Stats.ComposeTime, err)
	if err != nil {
		return nil, errors.Wrap(stageCode(err), err, "compose")
	}
	result.Plan = plan
	result.Stats.CellsPlaced = len(plan.Cells)
	result.Meta = plan.Meta

	logger.Info("composed plan",
		"cells", len(plan.Cells),
		"instructions", len(plan.Instructions),
		"duration", result.Stats.ComposeTime)

	// Stage 5: render (cached).
	renderStart := time.Now()
	observability.Pipeline().OnStageStart(observability.StageRender)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, plan, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnStageComplete(observability.StageRender, result.Stats.RenderTime, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render")
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// composePlan builds the drawing plan, serving it from the cache when the
// same configuration has been composed before. The plan is identified by the
// config hash alone: precision, palette, and every geometric parameter feed
// into it.
func (r *Runner) composePlan(ctx context.Context, lay *layout.Layout, stream *digits.Stream, run *digits.Run, opts Options) (*compose.Plan, error) {
	hash, err := opts.ConfigHash()
	if err != nil {
		return nil, err
	}
	key := r.Keyer.PlanKey(hash)

	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			var plan compose.Plan
			uerr := json.Unmarshal(data, &plan)
			if uerr == nil {
				observability.CacheEvents().OnHit(key)
				return &plan, nil
			}
			r.Logger.Warn("discarding corrupt plan cache entry", "key", key, "err", uerr)
		}
	}
	observability.CacheEvents().OnMiss(key)

	plan, err := compose.Build(lay, stream, run, opts.Config)
	if err != nil {
		return nil, err
	}
	plan.Meta.ConfigHash = hash

	if data, err := json.Marshal(plan); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLPlan); err != nil {
			r.Logger.Warn("failed to cache plan", "key", key, "err", err)
		}
	}
	return plan, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// stageCode preserves a structured error's code through stage wrapping,
// falling back to INTERNAL_ERROR for plain errors.
func stageCode(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}
