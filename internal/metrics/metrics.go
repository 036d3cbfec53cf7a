package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors are created eagerly so instrumented code works before (or
// without) Register, e.g. in tests.
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytscout_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ytscout_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytscout_cache_lookups_total",
			Help: "Response cache lookups, by key kind and result.",
		},
		[]string{"kind", "result"},
	)

	admissionRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytscout_admission_rejections_total",
			Help: "Search requests rejected by the per-caller admission limiter.",
		},
	)

	upstreamFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytscout_upstream_fetches_total",
			Help: "Upstream page fetches, by outcome (ok, status, error, cancelled).",
		},
		[]string{"outcome"},
	)

	degradedAnalytics = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytscout_degraded_analytics_total",
			Help: "Per-video analytics that fell back to defaults.",
		},
	)
)

// Register registers all collectors with the default registry. Call once at
// startup. pool may be nil when the ledger is disabled.
func Register(pool *pgxpool.Pool) {
	prometheus.MustRegister(
		RequestDuration,
		RequestsInFlight,
		cacheLookups,
		admissionRejections,
		upstreamFetches,
		degradedAnalytics,
	)

	if pool == nil {
		return
	}
	prometheus.MustRegister(
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ytscout_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 { return float64(pool.Stat().AcquiredConns()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ytscout_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 { return float64(pool.Stat().IdleConns()) },
		),
	)
}

func CacheHit(kind string)  { cacheLookups.WithLabelValues(kind, "hit").Inc() }
func CacheMiss(kind string) { cacheLookups.WithLabelValues(kind, "miss").Inc() }

func AdmissionRejected() { admissionRejections.Inc() }

func UpstreamFetch(outcome string) { upstreamFetches.WithLabelValues(outcome).Inc() }

func AnalyticsDegraded() { degradedAnalytics.Inc() }
