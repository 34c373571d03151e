// Command mapgen regenerates the restaurant map once: it fetches the sheet,
// renders index.html (and map.kml), and publishes them. All settings come
// from the environment; an optional .env file in the working directory is
// loaded first.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/storage"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"

	"github.com/peterg4059/savannah-restaurant-map/internal/adapter/geocache"
	"github.com/peterg4059/savannah-restaurant-map/internal/adapter/mapbox"
	"github.com/peterg4059/savannah-restaurant-map/internal/adapter/nominatim"
	"github.com/peterg4059/savannah-restaurant-map/internal/adapter/publish"
	"github.com/peterg4059/savannah-restaurant-map/internal/adapter/sheets"
	"github.com/peterg4059/savannah-restaurant-map/internal/config"
	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
	"github.com/peterg4059/savannah-restaurant-map/internal/observability"
	"github.com/peterg4059/savannah-restaurant-map/internal/pipeline"
	"github.com/peterg4059/savannah-restaurant-map/internal/render"
)

const jobName = "mapgen"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := run(ctx, cfg, logger, metrics)

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(cfg.PushgatewayURL, jobName); err != nil {
			logger.Error("metrics push failed", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("run failed", "error", runErr)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	extractor, err := newExtractor(ctx, cfg, logger)
	if err != nil {
		return err
	}

	geocoder, store, err := newGeocoder(cfg, metrics, logger)
	if err != nil {
		return err
	}

	publishers, closeAll, err := newPublishers(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeAll()

	renderer := render.New(render.Options{
		Title:       cfg.MapTitle,
		LegendTitle: cfg.LegendTitle,
		Center:      cfg.MapCenter,
		Zoom:        cfg.MapZoom,
		HTMLFile:    cfg.HTMLFile,
		KMLFile:     cfg.KMLFile,
	})
	transformer := pipeline.NewTransformer(cfg.LocationFilter, geocoder, logger, metrics)

	g := pipeline.New(extractor, transformer, renderer, publishers, logger, metrics)
	_, runErr := g.Run(ctx)

	// Keep whatever was geocoded even when a later stage failed.
	if store != nil {
		if err := store.Save(); err != nil {
			logger.Error("geocode cache save failed", "path", cfg.GeocodeCachePath, "error", err)
		}
	}
	return runErr
}

func newExtractor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pipeline.Extractor, error) {
	if cfg.SheetsCreds != "" {
		src, err := sheets.NewAPISource(ctx, cfg.SheetsCreds, cfg.SpreadsheetID, cfg.SheetName, logger)
		if err != nil {
			return nil, fmt.Errorf("sheets api: %w", err)
		}
		logger.Info("reading sheet via sheets api", "sheet", cfg.SheetName)
		return src, nil
	}
	logger.Info("reading sheet via csv export", "sheet", cfg.SheetName)
	return sheets.NewCSVSource(cfg.CSVExportURL(), cfg.FetchTimeout, logger), nil
}

// newGeocoder returns a nil Geocoder when geocoding is disabled. The returned
// store is nil unless a persistent cache is configured.
func newGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.Geocoder, *geocache.FileStore, error) {
	var inner domain.Geocoder
	switch cfg.Geocoder {
	case config.GeocoderMapbox:
		inner = mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, cfg.MapCenter, metrics, logger)
	case config.GeocoderNominatim:
		inner = nominatim.NewClient(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.NominatimMinDelay, cfg.FetchTimeout, metrics, logger)
	default:
		logger.Info("geocoding disabled")
		return nil, nil, nil
	}

	var store *geocache.FileStore
	if cfg.GeocodeCachePath != "" {
		var err error
		store, err = geocache.OpenFileStore(cfg.GeocodeCachePath)
		if err != nil {
			return nil, nil, err
		}
	}
	logger.Info("geocoding enabled",
		"provider", cfg.Geocoder,
		"cache_path", cfg.GeocodeCachePath,
	)
	return geocache.NewCachedGeocoder(inner, store, metrics), store, nil
}

func newPublishers(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]pipeline.Publisher, func(), error) {
	publishers := []pipeline.Publisher{publish.NewFilePublisher(cfg.OutputDir)}
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("client close error", "error", err)
			}
		}
	}

	if cfg.GCSBucket != "" {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("gcs client: %w", err)
		}
		closers = append(closers, client.Close)
		publishers = append(publishers, publish.NewGCSPublisher(client, cfg.GCSBucket, cfg.PublishPrefix))
		logger.Info("publishing to gcs", "bucket", cfg.GCSBucket, "prefix", cfg.PublishPrefix)
	}

	if cfg.S3Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("aws config: %w", err)
		}
		publishers = append(publishers, publish.NewS3Publisher(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.PublishPrefix))
		logger.Info("publishing to s3", "bucket", cfg.S3Bucket, "prefix", cfg.PublishPrefix, "region", awsCfg.Region)
	}

	return publishers, closeAll, nil
}
