package geocache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
	"github.com/peterg4059/savannah-restaurant-map/internal/observability"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingGeocoder) Geocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

var forsyth = domain.GeocodingResult{Lat: 32.0677, Lng: -81.0958, FormattedAddress: "Forsyth Park, Savannah, GA"}

func TestCachedGeocoder_RepeatAddressHitsStore(t *testing.T) {
	inner := &countingGeocoder{result: forsyth}
	metrics := observability.NewMetrics()
	cached := NewCachedGeocoder(inner, nil, metrics)

	r1, err := cached.Geocode(context.Background(), "Forsyth Park, Savannah")
	require.NoError(t, err)
	assert.Equal(t, forsyth, r1)

	r2, err := cached.Geocode(context.Background(), "  forsyth park,   SAVANNAH ")
	require.NoError(t, err)
	assert.Equal(t, forsyth.Geo(), r2.Geo())

	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("miss")), 0)
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{result: forsyth}
	cached := NewCachedGeocoder(inner, nil, observability.NewMetrics())

	_, _ = cached.Geocode(context.Background(), "1 Bull St")
	_, _ = cached.Geocode(context.Background(), "2 Bull St")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EmptyResultNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	store, err := OpenFileStore(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)
	cached := NewCachedGeocoder(inner, store, observability.NewMetrics())

	_, _ = cached.Geocode(context.Background(), "nowhere")
	_, _ = cached.Geocode(context.Background(), "nowhere")

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, store.Len())
}

func TestCachedGeocoder_ErrorPassesThrough(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("rate limited")}
	cached := NewCachedGeocoder(inner, nil, observability.NewMetrics())

	_, err := cached.Geocode(context.Background(), "1 Bull St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestCachedGeocoder_NextRunSkipsInner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	// First run resolves and persists the address.
	store, err := OpenFileStore(path)
	require.NoError(t, err)
	first := NewCachedGeocoder(&countingGeocoder{result: forsyth}, store, observability.NewMetrics())
	_, err = first.Geocode(context.Background(), "Forsyth Park, Savannah")
	require.NoError(t, err)
	require.NoError(t, store.Save())

	// Second run must not call the provider.
	store, err = OpenFileStore(path)
	require.NoError(t, err)
	inner := &countingGeocoder{}
	metrics := observability.NewMetrics()
	second := NewCachedGeocoder(inner, store, metrics)

	got, err := second.Geocode(context.Background(), "FORSYTH PARK, Savannah")
	require.NoError(t, err)
	assert.Equal(t, forsyth.Geo(), got.Geo())
	assert.Equal(t, 0, inner.calls)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("hit")), 0)
}
