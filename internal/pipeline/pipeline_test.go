package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
	"github.com/peterg4059/savannah-restaurant-map/internal/observability"
	"github.com/peterg4059/savannah-restaurant-map/internal/pipeline"
)

// --- mocks ---

type mockExtractor struct {
	sheet domain.Sheet
	err   error
}

func (m *mockExtractor) Extract(_ context.Context) (domain.Sheet, error) {
	return m.sheet, m.err
}

type mockTransformer struct {
	out []domain.Restaurant
	err error
}

func (m *mockTransformer) Transform(_ context.Context, _ domain.Sheet) ([]domain.Restaurant, error) {
	return m.out, m.err
}

type mockRenderer struct {
	artifacts []domain.Artifact
	err       error
}

func (m *mockRenderer) Render(_ []domain.Restaurant) ([]domain.Artifact, error) {
	return m.artifacts, m.err
}

type mockPublisher struct {
	name      string
	published []string
	failOn    string
}

func (m *mockPublisher) Name() string { return m.name }

func (m *mockPublisher) Publish(_ context.Context, a domain.Artifact) error {
	if a.Name == m.failOn {
		return errors.New("bucket unavailable")
	}
	m.published = append(m.published, a.Name)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testArtifacts() []domain.Artifact {
	return []domain.Artifact{
		{Name: "index.html", Body: []byte("<html></html>")},
		{Name: "map.kml", Body: []byte("<kml/>")},
	}
}

// --- tests ---

func TestGenerator_Run_HappyPath(t *testing.T) {
	ext := &mockExtractor{sheet: domain.Sheet{Header: []string{"Name"}, Rows: [][]string{{"a"}, {"b"}}}}
	tfm := &mockTransformer{out: []domain.Restaurant{{Name: "a"}}}
	rdr := &mockRenderer{artifacts: testArtifacts()}
	local := &mockPublisher{name: "file"}
	bucket := &mockPublisher{name: "gcs"}
	metrics := observability.NewMetrics()
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 6, 0, 0, 0, time.UTC))

	g := pipeline.New(ext, tfm, rdr, []pipeline.Publisher{local, bucket}, discardLogger(), metrics, pipeline.WithClock(clock))

	result, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, 1, result.Markers)
	assert.Equal(t, []string{"index.html", "map.kml"}, result.Artifacts)
	assert.Equal(t, []string{"index.html", "map.kml"}, local.published)
	assert.Equal(t, []string{"index.html", "map.kml"}, bucket.published)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MarkersRendered), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.Published.WithLabelValues("gcs")), 0)
	assert.InDelta(t, 13, testutil.ToFloat64(metrics.ArtifactBytes.WithLabelValues("index.html")), 0)
	assert.InDelta(t, float64(clock.Now().Unix()), testutil.ToFloat64(metrics.LastSuccess), 0)
}

func TestGenerator_Run_ExtractErrorAborts(t *testing.T) {
	local := &mockPublisher{name: "file"}
	g := pipeline.New(
		&mockExtractor{err: errors.New("status 404")},
		&mockTransformer{},
		&mockRenderer{artifacts: testArtifacts()},
		[]pipeline.Publisher{local},
		discardLogger(), observability.NewMetrics(),
	)

	_, err := g.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract: status 404")
	assert.Empty(t, local.published, "nothing may be written when the fetch fails")
}

func TestGenerator_Run_TransformErrorAborts(t *testing.T) {
	local := &mockPublisher{name: "file"}
	g := pipeline.New(
		&mockExtractor{},
		&mockTransformer{err: domain.ErrNoNameColumn},
		&mockRenderer{artifacts: testArtifacts()},
		[]pipeline.Publisher{local},
		discardLogger(), observability.NewMetrics(),
	)

	_, err := g.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrNoNameColumn)
	assert.Empty(t, local.published)
}

func TestGenerator_Run_RenderErrorAborts(t *testing.T) {
	local := &mockPublisher{name: "file"}
	g := pipeline.New(
		&mockExtractor{},
		&mockTransformer{},
		&mockRenderer{err: errors.New("template failed")},
		[]pipeline.Publisher{local},
		discardLogger(), observability.NewMetrics(),
	)

	_, err := g.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render:")
	assert.Empty(t, local.published)
}

func TestGenerator_Run_PublishErrorAborts(t *testing.T) {
	metrics := observability.NewMetrics()
	bucket := &mockPublisher{name: "s3", failOn: "map.kml"}
	g := pipeline.New(
		&mockExtractor{},
		&mockTransformer{},
		&mockRenderer{artifacts: testArtifacts()},
		[]pipeline.Publisher{bucket},
		discardLogger(), metrics,
	)

	_, err := g.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish map.kml to s3")
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.LastSuccess), 0)
}
