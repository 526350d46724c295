package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_custody",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wallet_custody",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	walletsCustodied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_custody",
			Subsystem: "wallets",
			Name:      "custodied_total",
			Help:      "Wallets taken into custody, by source.",
		},
		[]string{"source"},
	)

	chainErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_custody",
			Subsystem: "chain",
			Name:      "rpc_errors_total",
			Help:      "Failed calls to the blockchain RPC endpoint.",
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		walletsCustodied,
		chainErrors,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func WalletCustodied(source string) {
	walletsCustodied.WithLabelValues(source).Inc()
}

func ChainRPCError(method string) {
	chainErrors.WithLabelValues(method).Inc()
}
