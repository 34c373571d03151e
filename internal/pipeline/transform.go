package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
	"github.com/peterg4059/savannah-restaurant-map/internal/observability"
)

// Skip reasons, used as the "reason" label of the rows-skipped metric.
const (
	SkipFiltered           = "filtered"
	SkipMissingName        = "missing_name"
	SkipMissingCoordinates = "missing_coordinates"
	SkipInvalidCoordinates = "invalid_coordinates"
	SkipGeocodeFailed      = "geocode_failed"
)

// RestaurantTransformer implements Transformer using the domain row functions
// with optional geocoding of rows that have an address but no coordinates.
type RestaurantTransformer struct {
	locationFilter string
	geocoder       domain.Geocoder
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewTransformer creates a RestaurantTransformer. Pass a nil geocoder to
// disable geocoding; an empty filter keeps every location.
func NewTransformer(locationFilter string, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *RestaurantTransformer {
	return &RestaurantTransformer{
		locationFilter: locationFilter,
		geocoder:       geocoder,
		logger:         logger,
		metrics:        metrics,
	}
}

// Transform parses the sheet and returns one restaurant per usable row, in
// sheet order. Unusable rows are logged and counted, never fatal; only a
// malformed header or a cancelled context fails the transform.
func (t *RestaurantTransformer) Transform(ctx context.Context, sheet domain.Sheet) ([]domain.Restaurant, error) {
	rows, err := domain.ParseSheet(sheet)
	if err != nil {
		return nil, err
	}
	t.metrics.RowsFetched.Add(float64(len(rows)))

	out := make([]domain.Restaurant, 0, len(rows))
	for _, row := range rows {
		if !row.MatchesLocation(t.locationFilter) {
			t.skip(row, SkipFiltered, nil)
			continue
		}

		r, err := domain.NewRestaurant(row)
		if err != nil {
			t.skip(row, SkipMissingName, err)
			continue
		}

		r, err = domain.ResolveCoordinates(ctx, r, row, t.geocoder, t.logger)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			t.skip(row, skipReason(err), err)
			continue
		}
		out = append(out, r)
	}

	t.logger.Info("rows transformed",
		"rows", len(rows),
		"markers", len(out),
		"location_filter", t.locationFilter,
	)
	return out, nil
}

func (t *RestaurantTransformer) skip(row domain.RawRow, reason string, err error) {
	t.metrics.RowsSkipped.WithLabelValues(reason).Inc()
	// Filtered rows are routine; they are logged at debug.
	if reason == SkipFiltered {
		t.logger.Debug("row skipped", "line", row.Line, "name", row.Name, "reason", reason)
		return
	}
	t.logger.Warn("row skipped",
		"line", row.Line,
		"name", row.Name,
		"reason", reason,
		"error", err,
	)
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinates):
		return SkipInvalidCoordinates
	case errors.Is(err, domain.ErrGeocodeFailed):
		return SkipGeocodeFailed
	case errors.Is(err, domain.ErrMissingName):
		return SkipMissingName
	default:
		return SkipMissingCoordinates
	}
}
