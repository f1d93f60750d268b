package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evalfront", Name: "api_requests_total", Help: "Backend API calls",
	}, []string{"method"})
	APIErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "evalfront", Name: "api_errors_total", Help: "Backend API call failures",
	})
	Submissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evalfront", Name: "submissions_total", Help: "Draft submissions by outcome",
	}, []string{"outcome"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "evalfront", Name: "handler_errors_total", Help: "Front handler errors",
	})
	StorePing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "evalfront", Name: "store_ping_seconds", Help: "Client state store ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(APIRequests, APIErrors, Submissions, HandlerErrors, StorePing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveStorePing(d time.Duration) { StorePing.Observe(d.Seconds()) }
