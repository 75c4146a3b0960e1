package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorderCounts(t *testing.T) {
	r := NewPrometheus()

	r.RecordCacheMiss()
	r.RecordCacheHit()
	r.RecordCacheHit()
	r.RecordSourceWarning("Togo", KindMissingSource)
	r.RecordLoad(15*time.Millisecond, 3, 2, 42)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sourceWarnings.WithLabelValues("Togo", KindMissingSource)))
	assert.Equal(t, 42.0, testutil.ToFloat64(r.loadRows))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.loadSources.WithLabelValues("loaded")))
}

func TestPrometheusRecorderWriteTextfile(t *testing.T) {
	r := NewPrometheus()
	r.RecordAggregation("rank", time.Millisecond)

	path := filepath.Join(t.TempDir(), "solarboard.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `solarboard_aggregation_duration_seconds_count{op="rank"} 1`))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoop()
	assert.NotPanics(t, func() {
		r.RecordLoad(time.Second, 1, 1, 1)
		r.RecordSourceWarning("x", KindSchemaMismatch)
		r.RecordCacheHit()
		r.RecordCacheMiss()
		r.RecordAggregation("summarize", time.Second)
	})
}
