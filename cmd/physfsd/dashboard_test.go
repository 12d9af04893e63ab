package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-physfs/physfs/internal/diag"
)

// Expectation: cacheHitRatio should report "n/a" with no samples and a
// percentage otherwise.
func Test_CacheHitRatio_Success(t *testing.T) {
	t.Parallel()

	require.Equal(t, "n/a", cacheHitRatio(0, 0))
	require.Equal(t, "75.0%", cacheHitRatio(3, 1))
}

// Expectation: avgDuration should report "0s" with no samples and the mean
// duration otherwise.
func Test_AvgDuration_Success(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0s", avgDuration(0, 0))
	require.Equal(t, "2ms", avgDuration(int64(4*1e6), 2))
}

// Expectation: extractSpeed should report "0 B/s" when no extraction time
// has been recorded, regardless of byte count.
func Test_ExtractSpeed_NoTime_Zero(t *testing.T) {
	diag.Metrics.ExtractBytes.Store(1024)
	diag.Metrics.ExtractTime.Store(0)
	t.Cleanup(func() {
		diag.Metrics.ExtractBytes.Store(0)
		diag.Metrics.ExtractTime.Store(0)
	})

	require.Equal(t, "0 B/s", extractSpeed())
}

// Expectation: the metrics endpoint should serve the collected snapshot as
// JSON, reflecting the dashboard's version string.
func Test_MetricsHandler_ServesJSON(t *testing.T) {
	d := newDashboard("test-version")

	req := httptest.NewRequest(http.MethodGet, "/metrics.json", nil)
	rec := httptest.NewRecorder()

	d.metricsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dashboardData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "test-version", got.Version)
}

// Expectation: the reset endpoint should zero every accumulated metrics
// counter.
func Test_ResetHandler_ZeroesCounters(t *testing.T) {
	diag.Metrics.TotalOpened.Store(5)
	diag.Metrics.CacheHits.Store(3)

	d := newDashboard("test")
	req := httptest.NewRequest(http.MethodPost, "/reset", nil)
	rec := httptest.NewRecorder()

	d.resetHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(0), diag.Metrics.TotalOpened.Load())
	require.Equal(t, int64(0), diag.Metrics.CacheHits.Load())
}
