package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMissingCoordinates means both coordinate cells are empty.
	ErrMissingCoordinates = errors.New("missing coordinates")

	// ErrInvalidCoordinates means a coordinate cell is non-numeric or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// ParseCoordinates parses the lat/lng cells of a row.
// Both cells empty yields ErrMissingCoordinates. Anything else that Geo.Valid
// would reject, including 0,0, yields ErrInvalidCoordinates.
func ParseCoordinates(lat, lng string) (Geo, error) {
	lat = strings.TrimSpace(lat)
	lng = strings.TrimSpace(lng)
	if lat == "" && lng == "" {
		return Geo{}, ErrMissingCoordinates
	}

	la, err := parseDegrees(lat, 90)
	if err != nil {
		return Geo{}, fmt.Errorf("%w: lat %q", ErrInvalidCoordinates, lat)
	}
	ln, err := parseDegrees(lng, 180)
	if err != nil {
		return Geo{}, fmt.Errorf("%w: lng %q", ErrInvalidCoordinates, lng)
	}
	if la == 0 && ln == 0 {
		return Geo{}, fmt.Errorf("%w: 0,0", ErrInvalidCoordinates)
	}
	return Geo{Lat: la, Lng: ln}, nil
}

// Valid reports whether g is a finite coordinate pair within WGS-84 bounds.
// The zero pair is treated as "no result" and is not valid.
func (g Geo) Valid() bool {
	if g.Lat == 0 && g.Lng == 0 {
		return false
	}
	return inRange(g.Lat, 90) && inRange(g.Lng, 180)
}

func parseDegrees(s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !inRange(v, limit) {
		return 0, errors.New("out of range")
	}
	return v, nil
}

func inRange(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}
