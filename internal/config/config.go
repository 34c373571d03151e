package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Geocoder providers.
const (
	GeocoderNone      = "none"
	GeocoderMapbox    = "mapbox"
	GeocoderNominatim = "nominatim"
)

// Config holds all generator settings, populated from environment variables.
type Config struct {
	// Spreadsheet source.
	SpreadsheetID string
	SheetName     string
	SheetCSVURL   string
	SheetsCreds   string // service-account JSON; when set the Sheets API is used
	FetchTimeout  time.Duration

	LocationFilter string

	// Output.
	OutputDir   string
	HTMLFile    string
	KMLFile     string
	MapTitle    string
	LegendTitle string
	MapCenter   [2]float64
	MapZoom     int

	// Geocoding configuration.
	Geocoder           string
	MapboxToken        string
	MapboxTimeout      time.Duration
	NominatimURL       string
	NominatimUserAgent string
	NominatimMinDelay  time.Duration
	GeocodeCachePath   string

	// Publishing.
	GCSBucket     string
	S3Bucket      string
	PublishPrefix string

	PushgatewayURL string
	LogLevel       string
	LogFormat      string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	nominatimDelay, err := parseDuration("NOMINATIM_MIN_DELAY", "1.1s")
	if err != nil {
		return nil, err
	}

	center, err := parseCenter(sharedcfg.EnvOrDefault("MAP_CENTER", "32.0809,-81.0912"))
	if err != nil {
		return nil, err
	}

	zoom, err := strconv.Atoi(sharedcfg.EnvOrDefault("MAP_ZOOM", "13"))
	if err != nil || zoom < 0 || zoom > 19 {
		return nil, errors.New("invalid MAP_ZOOM")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	geocoder := GeocoderNominatim
	if mapboxToken != "" {
		geocoder = GeocoderMapbox
	}
	if v := os.Getenv("GEOCODER"); v != "" {
		geocoder = strings.ToLower(v)
	}

	cfg := &Config{
		SpreadsheetID: os.Getenv("SPREADSHEET_ID"),
		SheetName:     sharedcfg.EnvOrDefault("SHEET_NAME", "Full Data"),
		SheetCSVURL:   os.Getenv("SHEET_CSV_URL"),
		SheetsCreds:   os.Getenv("GOOGLE_SHEETS_CREDS_JSON"),
		FetchTimeout:  fetchTimeout,

		LocationFilter: envOrDefaultAllowEmpty("LOCATION_FILTER", "sav"),

		OutputDir:   sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		HTMLFile:    sharedcfg.EnvOrDefault("HTML_FILE", "index.html"),
		KMLFile:     envOrDefaultAllowEmpty("KML_FILE", "map.kml"),
		MapTitle:    sharedcfg.EnvOrDefault("MAP_TITLE", "Savannah Restaurant Map"),
		LegendTitle: sharedcfg.EnvOrDefault("LEGEND_TITLE", "Savannah Eats & Drinks"),
		MapCenter:   center,
		MapZoom:     zoom,

		Geocoder:           geocoder,
		MapboxToken:        mapboxToken,
		MapboxTimeout:      mapboxTimeout,
		NominatimURL:       sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: sharedcfg.EnvOrDefault("NOMINATIM_USER_AGENT", "savannah-restaurant-map"),
		NominatimMinDelay:  nominatimDelay,
		GeocodeCachePath:   envOrDefaultAllowEmpty("GEOCODE_CACHE_PATH", "geocode_cache.json"),

		GCSBucket:     os.Getenv("PUBLISH_GCS_BUCKET"),
		S3Bucket:      os.Getenv("PUBLISH_S3_BUCKET"),
		PublishPrefix: os.Getenv("PUBLISH_PREFIX"),

		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
		LogLevel:       sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.SheetCSVURL == "" && cfg.SpreadsheetID == "" {
		return nil, errors.New("SPREADSHEET_ID is required unless SHEET_CSV_URL is set")
	}
	if cfg.SheetsCreds != "" && cfg.SpreadsheetID == "" {
		return nil, errors.New("GOOGLE_SHEETS_CREDS_JSON requires SPREADSHEET_ID")
	}
	if cfg.SheetCSVURL != "" {
		if _, err := url.Parse(cfg.SheetCSVURL); err != nil {
			return nil, fmt.Errorf("invalid SHEET_CSV_URL: %w", err)
		}
	}
	if cfg.HTMLFile == cfg.KMLFile {
		return nil, errors.New("HTML_FILE and KML_FILE must differ")
	}

	switch cfg.Geocoder {
	case GeocoderNone, GeocoderNominatim:
	case GeocoderMapbox:
		if cfg.MapboxToken == "" {
			return nil, errors.New("GEOCODER is mapbox but MAPBOX_TOKEN is not set")
		}
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q", cfg.Geocoder)
	}

	return cfg, nil
}

// CSVExportURL returns SHEET_CSV_URL, or the public CSV export of the
// configured sheet when unset.
func (c *Config) CSVExportURL() string {
	if c.SheetCSVURL != "" {
		return c.SheetCSVURL
	}
	q := url.Values{
		"tqx":     {"out:csv"},
		"sheet":   {c.SheetName},
		"headers": {"1"},
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?%s", url.PathEscape(c.SpreadsheetID), q.Encode())
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseCenter parses "lat,lng".
func parseCenter(s string) ([2]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return [2]float64{}, errors.New("invalid MAP_CENTER: want lat,lng")
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return [2]float64{}, errors.New("invalid MAP_CENTER: want lat,lng")
	}
	return [2]float64{lat, lng}, nil
}

// envOrDefaultAllowEmpty is like EnvOrDefault but treats a variable that is
// set to "" as an explicit empty value.
func envOrDefaultAllowEmpty(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
