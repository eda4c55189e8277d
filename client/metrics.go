package client

import "github.com/prometheus/client_golang/prometheus"

var (
	iadminRequestsInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iadmin_requests_in_flight",
			Help: "Gauge that holds the current number of iadmin requests",
		},
		[]string{"operation"},
	)
	iadminRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iadmin_requests_total",
			Help: "Count of completed iadmin requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(iadminRequestsInFlight, iadminRequestsTotal)
}

func trackInFlight(op Operation) (done func(Result)) {
	gauge := iadminRequestsInFlight.WithLabelValues(string(op))
	gauge.Inc()
	return func(res Result) {
		gauge.Dec()
		iadminRequestsTotal.WithLabelValues(string(op), string(res.Outcome())).Inc()
	}
}
