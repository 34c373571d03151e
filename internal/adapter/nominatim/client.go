package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
	"github.com/peterg4059/savannah-restaurant-map/internal/observability"
)

const provider = "nominatim"

// Client implements domain.Geocoder using the OpenStreetMap Nominatim search API.
// The public instance allows one request per second, so calls are spaced by
// at least minDelay.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	throttle   *throttle
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client. Nominatim's usage policy requires an
// identifying User-Agent.
func NewClient(baseURL, userAgent string, minDelay, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		throttle:   newThrottle(clockwork.NewRealClock(), minDelay),
		metrics:    metrics,
		logger:     logger,
	}
}

// Geocode converts a street address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (domain.GeocodingResult, error) {
	if err := c.throttle.wait(ctx); err != nil {
		return domain.GeocodingResult{}, err
	}

	params := url.Values{
		"q":      {address},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}

	start := time.Now()
	result, err := c.doRequest(ctx, c.baseURL+"/search?"+params.Encode())
	c.metrics.GeocodeAPIDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues(provider, "error").Inc()
	case result.FormattedAddress == "":
		c.metrics.GeocodeRequests.WithLabelValues(provider, "empty").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues(provider, "success").Inc()
	}
	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("nominatim geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodingResult{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return domain.GeocodingResult{}, nil
	}

	p := places[0]
	lat, errLat := strconv.ParseFloat(p.Lat, 64)
	lng, errLng := strconv.ParseFloat(p.Lon, 64)
	if errLat != nil || errLng != nil {
		return domain.GeocodingResult{}, fmt.Errorf("nominatim returned non-numeric coordinates %q,%q", p.Lat, p.Lon)
	}

	c.logger.Debug("nominatim match", "display_name", p.DisplayName, "importance", p.Importance)
	return domain.GeocodingResult{
		Lat:              lat,
		Lng:              lng,
		FormattedAddress: p.DisplayName,
		Confidence:       p.Importance,
	}, nil
}

// Nominatim API response types. Coordinates are strings on the wire.

type place struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}
