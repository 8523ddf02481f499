package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "marketplace_http_requests_total", Help: "Total HTTP requests by method and status"},
		[]string{"method", "status"},
	)
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "marketplace_lifecycle_transitions_total", Help: "Total lifecycle transition attempts by entity and outcome"},
		[]string{"entity", "outcome"},
	)
)

func Register() {
	prometheus.MustRegister(HTTPRequests, Transitions)
}
