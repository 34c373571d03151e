package geocache

import (
	"context"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
	"github.com/peterg4059/savannah-restaurant-map/internal/observability"
)

// CachedGeocoder answers from a FileStore and falls back to the inner
// geocoder for addresses it has not seen.
type CachedGeocoder struct {
	inner   domain.Geocoder
	store   *FileStore
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder. A nil store
// is replaced by a memory-only one.
func NewCachedGeocoder(inner domain.Geocoder, store *FileStore, metrics *observability.Metrics) *CachedGeocoder {
	if store == nil {
		store = NewMemoryStore()
	}
	return &CachedGeocoder{inner: inner, store: store, metrics: metrics}
}

// Geocode implements domain.Geocoder.
func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.GeocodingResult, error) {
	if g, ok := c.store.get(address); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return domain.GeocodingResult{Lat: g.Lat, Lng: g.Lng}, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Geocode(ctx, address)
	if err != nil {
		return result, err
	}
	// Only cache real results so transient "not found" responses can be retried.
	if result.Geo().Valid() {
		c.store.put(address, result.Geo())
	}
	return result, nil
}
