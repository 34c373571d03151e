package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     string
		lng     string
		want    Geo
		wantErr error
	}{
		{"decimal degrees", "32.0809", "-81.0912", Geo{Lat: 32.0809, Lng: -81.0912}, nil},
		{"surrounding whitespace", " 32.5 ", "\t-81 ", Geo{Lat: 32.5, Lng: -81}, nil},
		{"both empty", "", "", Geo{}, ErrMissingCoordinates},
		{"blank cells", "  ", " ", Geo{}, ErrMissingCoordinates},
		{"lat only", "32.08", "", Geo{}, ErrInvalidCoordinates},
		{"non-numeric lat", "N32", "-81.09", Geo{}, ErrInvalidCoordinates},
		{"non-numeric lng", "32.08", "west", Geo{}, ErrInvalidCoordinates},
		{"lat out of range", "95", "-81.09", Geo{}, ErrInvalidCoordinates},
		{"lng out of range", "32.08", "-181", Geo{}, ErrInvalidCoordinates},
		{"NaN", "NaN", "-81.09", Geo{}, ErrInvalidCoordinates},
		{"infinity", "32.08", "Inf", Geo{}, ErrInvalidCoordinates},
		{"zero pair", "0", "0.0", Geo{}, ErrInvalidCoordinates},
		{"zero lat only", "0", "-81.09", Geo{Lat: 0, Lng: -81.09}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinates(tt.lat, tt.lng)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGeo_Valid(t *testing.T) {
	assert.True(t, Geo{Lat: 32.08, Lng: -81.09}.Valid())
	assert.False(t, Geo{}.Valid(), "zero pair means no result")
	assert.False(t, Geo{Lat: 91, Lng: 0}.Valid())
}
