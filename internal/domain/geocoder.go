package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geo returns the result's coordinates.
func (r GeocodingResult) Geo() Geo {
	return Geo{Lat: r.Lat, Lng: r.Lng}
}

// Geocoder resolves street addresses to coordinates.
type Geocoder interface {
	// Geocode converts a free-form address to coordinates. A zero result with
	// a nil error means the provider found nothing.
	Geocode(ctx context.Context, address string) (GeocodingResult, error)
}
