package pipeline

import (
	"context"

	"github.com/mkoster/pibauhaus/pkg/cache"
	"github.com/mkoster/pibauhaus/pkg/digits"
	"github.com/mkoster/pibauhaus/pkg/observability"
)

// DigitsWithCacheInfo returns the first precision digits of pi after the
// decimal point, reporting whether they came from cache. The cached value is
// the raw digit string; digits never expire, so any prefix computed once is
// reusable forever.
func (r *Runner) DigitsWithCacheInfo(ctx context.Context, precision int, refresh bool) (*digits.Stream, bool, error) {
	key := r.Keyer.DigitsKey(precision)

	if !refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			stream, err := digits.FromString(string(data))
			if err == nil {
				observability.CacheEvents().OnHit(key)
				return stream, true, nil
			}
			// A corrupt entry falls through to regeneration.
			r.Logger.Warn("discarding corrupt digit cache entry", "key", key, "err", err)
		}
	}
	observability.CacheEvents().OnMiss(key)

	stream, err := digits.Generate(ctx, precision)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, []byte(stream.String()), cache.TTLDigits); err != nil {
		r.Logger.Warn("failed to cache digits", "key", key, "err", err)
	}
	return stream, false, nil
}
