package pipeline

import (
	"context"

	"github.com/mkoster/pibauhaus/pkg/cache"
	"github.com/mkoster/pibauhaus/pkg/compose"
	"github.com/mkoster/pibauhaus/pkg/observability"
	"github.com/mkoster/pibauhaus/pkg/render/sink"
)

// ThumbKey is the artifact map key for the downscaled preview.
const ThumbKey = "thumb"

// RenderWithCacheInfo produces the requested artifact formats for a plan,
// reporting whether every artifact came from cache. The plan's canonical JSON
// is both the "json" artifact and the identity that keys the others, so any
// change to the plan invalidates all of its renders at once.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, plan *compose.Plan, opts Options) (map[string][]byte, bool, error) {
	planJSON, err := sink.RenderJSON(plan)
	if err != nil {
		return nil, false, err
	}
	planHash := cache.Hash(planJSON)

	keys := make(map[string]string, len(opts.Formats)+1)
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(planHash, cache.ArtifactKeyOpts{Format: format})
	}
	thumbEdge := opts.ThumbEdge
	if thumbEdge == 0 {
		thumbEdge = sink.DefaultThumbEdge
	}
	if opts.Thumbnail {
		keys[ThumbKey] = r.Keyer.ArtifactKey(planHash, cache.ArtifactKeyOpts{
			Format:    FormatPNG,
			Thumbnail: true,
			ThumbEdge: thumbEdge,
		})
	}

	artifacts := make(map[string][]byte, len(keys))
	allHit := true
	if !opts.Refresh {
		for name, key := range keys {
			data, ok, err := r.Cache.Get(ctx, key)
			if err != nil || !ok {
				allHit = false
				continue
			}
			observability.CacheEvents().OnHit(key)
			artifacts[name] = data
		}
		if allHit && len(artifacts) == len(keys) {
			return artifacts, true, nil
		}
	}

	// Render whatever the cache did not provide. A thumbnail needs PNG bytes
	// even when the caller did not ask for the full-size PNG.
	var pngData []byte
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done && !opts.Refresh {
			continue
		}
		var data []byte
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(plan)
		case FormatPNG:
			data, err = sink.RenderPNG(plan)
			if err != nil {
				return nil, false, err
			}
			pngData = data
		case FormatJSON:
			data = planJSON
		}
		artifacts[format] = data
		r.store(ctx, keys[format], data)
	}

	if opts.Thumbnail {
		if _, done := artifacts[ThumbKey]; !done || opts.Refresh {
			if pngData == nil {
				pngData, err = sink.RenderPNG(plan)
				if err != nil {
					return nil, false, err
				}
			}
			thumb, err := sink.Thumbnail(pngData, thumbEdge)
			if err != nil {
				return nil, false, err
			}
			artifacts[ThumbKey] = thumb
			r.store(ctx, keys[ThumbKey], thumb)
		}
	}

	return artifacts, false, nil
}

func (r *Runner) store(ctx context.Context, key string, data []byte) {
	observability.CacheEvents().OnMiss(key)
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("failed to cache artifact", "key", key, "err", err)
	}
}
