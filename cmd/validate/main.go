// Command validate checks a generated map page against a sheet snapshot. It
// re-runs the transform and render stages offline over the snapshot and
// verifies the page embeds exactly one marker per valid row and that
// rendering is byte-identical.
//
// Usage:
//
//	go run ./cmd/validate -snapshot testdata/sheet.csv -page public/index.html
//
// Map settings (title, center, location filter, geocode cache) are read from
// the same environment variables as mapgen. Rows that mapgen geocoded are
// resolved from GEOCODE_CACHE_PATH only; no geocoding requests are made.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/peterg4059/savannah-restaurant-map/internal/adapter/geocache"
	"github.com/peterg4059/savannah-restaurant-map/internal/adapter/sheets"
	"github.com/peterg4059/savannah-restaurant-map/internal/config"
	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
	"github.com/peterg4059/savannah-restaurant-map/internal/observability"
	"github.com/peterg4059/savannah-restaurant-map/internal/pipeline"
	"github.com/peterg4059/savannah-restaurant-map/internal/render"
)

// errOffline is returned for addresses missing from the geocode cache.
var errOffline = errors.New("address not in geocode cache")

type offlineGeocoder struct{}

func (offlineGeocoder) Geocode(context.Context, string) (domain.GeocodingResult, error) {
	return domain.GeocodingResult{}, errOffline
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	snapshot := flag.String("snapshot", "", "path to a CSV export of the sheet")
	page := flag.String("page", "", "path to the generated page (default OUTPUT_DIR/HTML_FILE)")
	verbose := flag.Bool("v", false, "log skipped rows")
	flag.Parse()

	if *snapshot == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*snapshot, *page, *verbose); code != 0 {
		os.Exit(code)
	}
}

func run(snapshotPath, pagePath string, verbose bool) int {
	abs, err := filepath.Abs(snapshotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: snapshot path: %v\n", err)
		return 1
	}
	// The snapshot replaces whatever source the environment names.
	if err := os.Setenv("SHEET_CSV_URL", "file://"+abs); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}
	if pagePath == "" {
		pagePath = filepath.Join(cfg.OutputDir, cfg.HTMLFile)
	}

	var logger *slog.Logger
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fmt.Println("=== Restaurant Map Validation ===")
	fmt.Println()

	ctx := context.Background()
	sheet, err := sheets.NewCSVSource(cfg.CSVExportURL(), cfg.FetchTimeout, logger).Extract(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load snapshot: %v\n", err)
		return 1
	}

	var geocoder domain.Geocoder
	if cfg.Geocoder != config.GeocoderNone && cfg.GeocodeCachePath != "" {
		store, err := geocache.OpenFileStore(cfg.GeocodeCachePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
		geocoder = geocache.NewCachedGeocoder(offlineGeocoder{}, store, observability.NewMetrics())
	}

	want, err := pipeline.NewTransformer(cfg.LocationFilter, geocoder, logger, observability.NewMetrics()).Transform(ctx, sheet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: transform snapshot: %v\n", err)
		return 1
	}

	pageBytes, err := os.ReadFile(pagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read page: %v\n", err)
		return 1
	}
	got, err := render.ExtractMarkers(pageBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", pagePath, err)
		return 1
	}

	renderer := render.New(render.Options{
		Title:       cfg.MapTitle,
		LegendTitle: cfg.LegendTitle,
		Center:      cfg.MapCenter,
		Zoom:        cfg.MapZoom,
		HTMLFile:    cfg.HTMLFile,
	})

	phases := []*phase{
		validateMarkerCount(got, want),
		validateMarkerContent(got, want),
		validateCoordinates(got),
		validateRerender(renderer, want, pageBytes),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d sheet rows, %d valid rows, %d page markers\n", len(sheet.Rows), len(want), len(got))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateMarkerCount(got, want []domain.Restaurant) *phase {
	p := &phase{name: "Phase 1: Marker Count"}
	if len(got) != len(want) {
		p.errorf("page has %d markers, snapshot has %d valid rows", len(got), len(want))
	}
	return p
}

func validateMarkerContent(got, want []domain.Restaurant) *phase {
	p := &phase{name: "Phase 2: Marker Content (sheet order)"}
	n := min(len(got), len(want))
	for i := range n {
		g, w := got[i], want[i]
		if g.Name != w.Name {
			p.errorf("marker %d: name %q, want %q", i, g.Name, w.Name)
			continue
		}
		if g.Category != w.Category {
			p.errorf("%s: category %q, want %q", w.Name, g.Category, w.Category)
		}
		if g.Geo() != w.Geo() {
			p.errorf("%s: at %v, want %v", w.Name, g.Geo(), w.Geo())
		}
		if g.PhotoURL != w.PhotoURL {
			p.errorf("%s: photo %q, want %q", w.Name, g.PhotoURL, w.PhotoURL)
		}
	}
	for _, extra := range got[n:] {
		p.errorf("unexpected marker %q", extra.Name)
	}
	for _, missing := range want[n:] {
		p.errorf("missing marker %q", missing.Name)
	}
	return p
}

func validateCoordinates(got []domain.Restaurant) *phase {
	p := &phase{name: "Phase 3: Coordinate Validity"}
	for _, r := range got {
		if !r.Geo().Valid() {
			p.errorf("%s: invalid coordinates %v", r.Name, r.Geo())
		}
	}
	return p
}

func validateRerender(renderer *render.Renderer, want []domain.Restaurant, page []byte) *phase {
	p := &phase{name: "Phase 4: Byte-Identical Re-render"}
	first, err := renderer.HTML(want)
	if err != nil {
		p.errorf("render: %v", err)
		return p
	}
	second, err := renderer.HTML(want)
	if err != nil {
		p.errorf("render: %v", err)
		return p
	}
	if !bytes.Equal(first, second) {
		p.errorf("two renders of the same snapshot differ")
	}
	if !bytes.Equal(first, page) {
		p.errorf("page differs from a fresh render of the snapshot (%d vs %d bytes)", len(page), len(first))
	}
	return p
}
