package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"eventfinder/internal/adapters/cache"
	"eventfinder/internal/domain"
)

// DefaultCacheTTL is how long a successful lookup is reused.
const DefaultCacheTTL = 7 * 24 * time.Hour

// CachedGeocoder memoises successful lookups of the wrapped Geocoder.
// Failures are not cached, and cache errors fall through to the wrapped Geocoder.
type CachedGeocoder struct {
	next   domain.Geocoder
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

var _ domain.Geocoder = (*CachedGeocoder)(nil)

// NewCachedGeocoder wraps next with c. A non-positive ttl uses DefaultCacheTTL.
func NewCachedGeocoder(next domain.Geocoder, c cache.Cache, ttl time.Duration, logger *slog.Logger) *CachedGeocoder {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedGeocoder{next: next, cache: c, ttl: ttl, logger: logger}
}

// NormalizeAddress lowercases and collapses whitespace so equivalent addresses share a key.
func NormalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	key := "geocode:" + NormalizeAddress(address)

	raw, err := g.cache.Get(ctx, key)
	switch {
	case err == nil:
		var coords domain.Coordinates
		if jsonErr := json.Unmarshal(raw, &coords); jsonErr == nil {
			LookupsTotal.WithLabelValues(outcomeCacheHit).Inc()
			return &coords, nil
		}
		g.logger.WarnContext(ctx, "discarding malformed geocode cache entry", "key", key)
	case !errors.Is(err, cache.ErrCacheMiss):
		g.logger.WarnContext(ctx, "geocode cache read failed", "key", key, "err", err)
	}

	coords, err := g.next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(coords); err == nil {
		if err := g.cache.Set(ctx, key, raw, g.ttl); err != nil {
			g.logger.WarnContext(ctx, "geocode cache write failed", "key", key, "err", err)
		}
	}
	return coords, nil
}
