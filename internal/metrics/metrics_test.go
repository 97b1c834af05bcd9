package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"forest-disease/internal/sims/forest"
)

func newWorld(t *testing.T) *forest.World {
	t.Helper()
	cfg := forest.DefaultConfig()
	cfg.Width = 16
	cfg.Height = 16
	w, err := forest.NewWorld(cfg)
	require.NoError(t, err)
	return w
}

func TestCollectorTracksCounts(t *testing.T) {
	w := newWorld(t)
	c := New()
	c.Attach(w)

	require.Equal(t, float64(w.Counts().Healthy), testutil.ToFloat64(c.trees.WithLabelValues("Healthy")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.running))

	w.Step()
	c.ObserveTick(w)

	counts := w.Counts()
	require.Equal(t, float64(counts.Healthy), testutil.ToFloat64(c.trees.WithLabelValues("Healthy")))
	require.Equal(t, float64(counts.Infected), testutil.ToFloat64(c.trees.WithLabelValues("Infected")))
	require.Equal(t, float64(counts.Dead), testutil.ToFloat64(c.trees.WithLabelValues("Dead")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.ticks))
	require.Equal(t, 1.0, testutil.ToFloat64(c.tick))
	require.Equal(t, float64(w.NumTrees()), testutil.ToFloat64(c.activations.WithLabelValues("tree")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.activations.WithLabelValues("carrier")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	w := newWorld(t)
	c := New()
	c.Attach(w)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "forest_trees"))
}
