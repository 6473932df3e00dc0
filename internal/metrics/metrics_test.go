package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalplan/internal/database"
	"vitalplan/internal/shared"
)

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewStore(db.SQL)
	s.now = func() time.Time { return now }
	return s
}

func TestStoreDailyUsage(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	records := []ExecutionMetric{
		{AgentName: "Dietitian", Model: "m", PromptTokens: 100, CompletionTokens: 50, Timestamp: now.Add(-time.Hour)},
		{AgentName: "Dietitian", Model: "m", PromptTokens: 10, CompletionTokens: 5, Timestamp: now.Add(-2 * time.Hour)},
		{AgentName: "Dietitian", Model: "m", PromptTokens: 1, CompletionTokens: 1, Timestamp: now.AddDate(0, 0, -1)},
		{AgentName: "Dietitian", Model: "m", PromptTokens: 999, CompletionTokens: 999, Timestamp: now.AddDate(0, 0, -30)},
	}
	for _, r := range records {
		require.NoError(t, s.Record(r))
	}

	usage, err := s.GetDailyUsage(7)
	require.NoError(t, err)
	require.Len(t, usage, 2)

	assert.Equal(t, DailyUsage{Date: "2024-06-10", TotalPrompt: 110, TotalCompletion: 55, TotalExecution: 2}, usage[0])
	assert.Equal(t, "2024-06-09", usage[1].Date)

	deleted, err := s.Cleanup(7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestRecordMetaSkipsEmptyUsage(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	require.NoError(t, s.RecordMeta(shared.AgentMeta{AgentName: "mock"}))
	usage, err := s.GetDailyUsage(1)
	require.NoError(t, err)
	assert.Empty(t, usage)

	before := testutil.ToFloat64(llmTokens.WithLabelValues("Dietitian", "prompt"))
	require.NoError(t, s.RecordMeta(shared.AgentMeta{
		AgentName: "Dietitian",
		Usage:     shared.TokenUsage{PromptTokens: 40, CompletionTokens: 2, Model: "llama"},
		Latency:   1500 * time.Millisecond,
	}))
	assert.Equal(t, before+40, testutil.ToFloat64(llmTokens.WithLabelValues("Dietitian", "prompt")))

	m := MapUsage("Dietitian", shared.TokenUsage{Model: "llama"}, 1500*time.Millisecond)
	assert.Equal(t, int64(1500), m.LatencyMS)
}

func TestCounters(t *testing.T) {
	orders := testutil.ToFloat64(ordersPlaced.WithLabelValues("local"))
	RecordOrder("local", 32.99)
	assert.Equal(t, orders+1, testutil.ToFloat64(ordersPlaced.WithLabelValues("local")))

	scansBefore := testutil.ToFloat64(scans.WithLabelValues("upload", OutcomeOK))
	RecordScan("upload", OutcomeOK)
	assert.Equal(t, scansBefore+1, testutil.ToFloat64(scans.WithLabelValues("upload", OutcomeOK)))

	plansBefore := testutil.ToFloat64(plansGenerated.WithLabelValues(OutcomeCancelled))
	RecordPlan(OutcomeCancelled, 0)
	assert.Equal(t, plansBefore+1, testutil.ToFloat64(plansGenerated.WithLabelValues(OutcomeCancelled)))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordOrder("walmart", 10)

	h := InstrumentHandler("/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `vitalplan_checkout_orders_total{vendor="walmart"}`)
	assert.True(t, strings.Contains(body, `vitalplan_http_requests_total{method="GET",path="/health",status="418"}`))
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 2048), 0o600))

	h := GetSysHealth(dir)
	assert.Equal(t, "2.0 kB", h.DataDiskSize)
	assert.Positive(t, h.Goroutines)
}
