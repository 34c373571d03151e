package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_FreshRegistryPerCall(t *testing.T) {
	// Two runs in one process must not collide on registration.
	m1 := NewMetrics()
	m2 := NewMetrics()

	m1.RowsFetched.Add(3)
	assert.InDelta(t, 3.0, testutil.ToFloat64(m1.RowsFetched), 0.0001)
	assert.InDelta(t, 0.0, testutil.ToFloat64(m2.RowsFetched), 0.0001)
}

func TestMetrics_Push(t *testing.T) {
	var (
		method string
		path   string
		body   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMetrics()
	m.MarkersRendered.Set(42)
	m.RowsSkipped.WithLabelValues("invalid_coordinates").Inc()

	require.NoError(t, m.Push(srv.URL, "mapgen"))

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/mapgen", path)
	assert.NotEmpty(t, body)
}

func TestMetrics_PushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewMetrics().Push(srv.URL, "mapgen")
	assert.Error(t, err)
}
