package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
	"github.com/peterg4059/savannah-restaurant-map/internal/observability"
)

// Extractor reads the whole sheet from its source.
type Extractor interface {
	Extract(ctx context.Context) (domain.Sheet, error)
}

// Transformer converts a sheet into the restaurants that belong on the map.
type Transformer interface {
	Transform(ctx context.Context, sheet domain.Sheet) ([]domain.Restaurant, error)
}

// Renderer builds every output artifact in memory.
type Renderer interface {
	Render(restaurants []domain.Restaurant) ([]domain.Artifact, error)
}

// Publisher delivers one artifact to a destination.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, a domain.Artifact) error
}

// Result summarizes one run.
type Result struct {
	Rows      int
	Markers   int
	Artifacts []string
}

// Generator orchestrates extract, transform, render, and publish for one run.
type Generator struct {
	extractor   Extractor
	transformer Transformer
	renderer    Renderer
	publishers  []Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces the real clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// New creates a Generator with the given stages and observability.
func New(e Extractor, t Transformer, r Renderer, publishers []Publisher, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Generator {
	g := &Generator{
		extractor:   e,
		transformer: t,
		renderer:    r,
		publishers:  publishers,
		logger:      logger,
		metrics:     metrics,
		clock:       clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes one generation. Every artifact is rendered before anything is
// published, and any stage error aborts the run.
func (g *Generator) Run(ctx context.Context) (Result, error) {
	start := g.clock.Now()
	g.logger.Info("run started")

	sheet, err := g.extractor.Extract(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("extract: %w", err)
	}
	g.logger.Info("sheet fetched", "rows", len(sheet.Rows))

	restaurants, err := g.transformer.Transform(ctx, sheet)
	if err != nil {
		return Result{}, fmt.Errorf("transform: %w", err)
	}

	artifacts, err := g.renderer.Render(restaurants)
	if err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}
	g.metrics.MarkersRendered.Set(float64(len(restaurants)))

	result := Result{Rows: len(sheet.Rows), Markers: len(restaurants)}
	for _, a := range artifacts {
		g.metrics.ArtifactBytes.WithLabelValues(a.Name).Set(float64(len(a.Body)))
		for _, p := range g.publishers {
			if err := p.Publish(ctx, a); err != nil {
				return result, fmt.Errorf("publish %s to %s: %w", a.Name, p.Name(), err)
			}
			g.metrics.Published.WithLabelValues(p.Name()).Inc()
			g.logger.Debug("artifact published", "artifact", a.Name, "target", p.Name(), "bytes", len(a.Body))
		}
		result.Artifacts = append(result.Artifacts, a.Name)
	}

	elapsed := g.clock.Since(start)
	g.metrics.RunDuration.Set(elapsed.Seconds())
	g.metrics.LastSuccess.Set(float64(g.clock.Now().Unix()))
	g.logger.Info("run complete",
		"rows", result.Rows,
		"markers", result.Markers,
		"artifacts", result.Artifacts,
		"duration", elapsed,
	)
	return result, nil
}
