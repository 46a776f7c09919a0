package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, expected := range tests {
		assert.Equal(t, expected, ParseLevel(in), "level %q", in)
	}
}

func TestInsightsLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "info")

	logger.InsightsLogger("performance", "user-1", 6, []string{"logistic"}, 12*time.Millisecond)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Prediction Completed", entry["msg"])
	assert.Equal(t, "performance", entry["operation"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, []any{"logistic"}, entry["fallbacks"])
	assert.Contains(t, entry, "timestamp")
}

func TestStreamLogger_LevelDependsOnError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "info")

	logger.StreamLogger("activities", 0, 7, "user-1", nil)
	assert.Empty(t, buf.String())

	logger.StreamLogger("activities", 0, 8, "user-1", errors.New("bad payload"))
	assert.Contains(t, buf.String(), "Stream Message Failed")
	assert.Contains(t, buf.String(), "bad payload")
}

func TestMetrics_Predictions(t *testing.T) {
	m := NewMetrics()
	m.RecordPrediction("performance", []string{"logistic", "decision_tree"})
	m.RecordPrediction("performance", nil)
	m.RecordPrediction("time_accuracy", nil)
	m.RecordFitFailure("time_accuracy")
	m.RecordReportStored(true)
	m.RecordReportStored(false)

	stats := m.GetPredictionStats()
	assert.Equal(t, map[string]int64{"performance": 2, "time_accuracy": 1}, stats["predictions"])
	assert.Equal(t, map[string]int64{"logistic": 1, "decision_tree": 1}, stats["fit_fallbacks"])
	assert.Equal(t, map[string]int64{"time_accuracy": 1}, stats["fit_failures"])
	assert.Equal(t, int64(1), stats["reports_stored"])
	assert.Equal(t, int64(1), stats["report_store_errors"])
}

func TestMetrics_Percentiles(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(50))

	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}
	assert.Equal(t, 50*time.Millisecond, m.GetPercentileResponseTime(50))
	assert.Equal(t, 100*time.Millisecond, m.GetPercentileResponseTime(100))
}

func TestMonitoringMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	metrics := NewMetrics()

	r := gin.New()
	r.Use(RequestIDMiddleware(), MonitoringMiddleware(metrics, NewLoggerWithWriter(&buf, "info")))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/bad", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats["total_requests"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.Equal(t, map[int]int64{200: 1, 400: 1}, stats["status_code_distribution"])
	assert.Contains(t, buf.String(), "HTTP Request")
}
