package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vitalplan/internal/shared"
)

const namespace = "vitalplan"

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	plansGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "plans_total",
			Help:      "Diet plan generations by outcome.",
		},
		[]string{"outcome"},
	)

	planDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "generation_duration_seconds",
			Help:      "Duration of diet plan generation.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to ~32s
		},
	)

	scans = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "scans_total",
			Help:      "Food scans by capture source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	ordersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "orders_total",
			Help:      "Orders placed per vendor.",
		},
		[]string{"vendor"},
	)

	orderValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "order_value_total",
			Help:      "Sum of order grand totals per vendor.",
		},
		[]string{"vendor"},
	)

	llmTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Tokens consumed by language model calls.",
		},
		[]string{"agent", "kind"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	Registry.MustRegister(
		plansGenerated,
		planDuration,
		scans,
		ordersPlaced,
		orderValue,
		llmTokens,
		httpRequests,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler counts requests by route path and status.
func InstrumentHandler(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		httpRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RecordPlan counts a plan generation and, when it completed, its duration.
func RecordPlan(outcome string, d time.Duration) {
	plansGenerated.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		planDuration.Observe(d.Seconds())
	}
}

// RecordScan counts one analysis. source is "camera" or "upload".
func RecordScan(source, outcome string) {
	scans.WithLabelValues(source, outcome).Inc()
}

// RecordOrder counts a placed order and adds its total.
func RecordOrder(vendor string, total float64) {
	ordersPlaced.WithLabelValues(vendor).Inc()
	orderValue.WithLabelValues(vendor).Add(total)
}

// ObserveTokens adds the token usage of one agent execution.
func ObserveTokens(meta shared.AgentMeta) {
	if meta.Usage.PromptTokens > 0 {
		llmTokens.WithLabelValues(meta.AgentName, "prompt").Add(float64(meta.Usage.PromptTokens))
	}
	if meta.Usage.CompletionTokens > 0 {
		llmTokens.WithLabelValues(meta.AgentName, "completion").Add(float64(meta.Usage.CompletionTokens))
	}
}
