package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrMissingName means the row has no name.
	ErrMissingName = errors.New("missing name")

	// ErrGeocodeFailed means the address could not be resolved.
	ErrGeocodeFailed = errors.New("geocode failed")
)

// Geo sources recorded on Restaurant.GeoSource.
const (
	GeoSourceSheet    = "sheet"
	GeoSourceGeocoded = "geocoded"
)

// NewRestaurant copies a row's descriptive fields into a Restaurant and
// classifies its type. Coordinates are left for ResolveCoordinates.
func NewRestaurant(row RawRow) (Restaurant, error) {
	if row.Name == "" {
		return Restaurant{}, ErrMissingName
	}
	return Restaurant{
		Name:     row.Name,
		Type:     row.Type,
		Category: Classify(row.Type),
		Summary:  row.Summary,
		Address:  row.Address,
		PhotoURL: PhotoURL(row.Photo),
	}, nil
}

// ResolveCoordinates fills in r's coordinates. Sheet coordinates win; when
// both coordinate cells are empty the address is forward geocoded. A nil
// geocoder disables the fallback.
func ResolveCoordinates(ctx context.Context, r Restaurant, row RawRow, geocoder Geocoder, logger *slog.Logger) (Restaurant, error) {
	geo, err := ParseCoordinates(row.Lat, row.Lng)
	if err == nil {
		r.Lat, r.Lng = geo.Lat, geo.Lng
		r.GeoSource = GeoSourceSheet
		return r, nil
	}
	if !errors.Is(err, ErrMissingCoordinates) {
		return r, err
	}

	if geocoder == nil || r.Address == "" {
		return r, ErrMissingCoordinates
	}

	result, err := geocoder.Geocode(ctx, r.Address)
	if err != nil {
		logger.Warn("geocoding failed",
			"name", r.Name,
			"address", r.Address,
			"error", err,
		)
		return r, fmt.Errorf("%w: %w", ErrGeocodeFailed, err)
	}
	if !result.Geo().Valid() {
		return r, fmt.Errorf("%w: no result for %q", ErrGeocodeFailed, r.Address)
	}

	r.Lat, r.Lng = result.Lat, result.Lng
	r.GeoSource = GeoSourceGeocoded
	logger.Debug("geocoded",
		"name", r.Name,
		"lat", r.Lat,
		"lng", r.Lng,
		"formatted_address", result.FormattedAddress,
	)
	return r, nil
}
