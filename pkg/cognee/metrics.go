package cognee

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer receives a callback for every attempt the transport makes and
// every retry it schedules. Implementations must be safe for concurrent use.
type Observer interface {
	AttemptFinished(method string, status int, err error, duration time.Duration)
	RetryScheduled(method string, attemptIndex int, delay time.Duration)
}

// PrometheusObserver exports transport activity as Prometheus metrics.
type PrometheusObserver struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
	backoff  prometheus.Counter
}

// NewPrometheusObserver creates the collectors and registers them with reg.
func NewPrometheusObserver(reg prometheus.Registerer) (*PrometheusObserver, error) {
	o := &PrometheusObserver{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cognee_client_attempts_total",
				Help: "HTTP attempts made by the Cognee client, by method and status code",
			},
			[]string{"method", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cognee_client_attempt_duration_seconds",
				Help:    "Duration of individual HTTP attempts",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cognee_client_retries_total",
				Help: "Retries scheduled by the Cognee client",
			},
			[]string{"method"},
		),
		backoff: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cognee_client_backoff_seconds_total",
			Help: "Total time spent waiting between retries",
		}),
	}
	for _, c := range []prometheus.Collector{o.attempts, o.duration, o.retries, o.backoff} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return o, nil
}

func (o *PrometheusObserver) AttemptFinished(method string, status int, err error, duration time.Duration) {
	code := "error"
	if err == nil {
		code = strconv.Itoa(status)
	}
	o.attempts.WithLabelValues(method, code).Inc()
	o.duration.WithLabelValues(method).Observe(duration.Seconds())
}

func (o *PrometheusObserver) RetryScheduled(method string, _ int, delay time.Duration) {
	o.retries.WithLabelValues(method).Inc()
	o.backoff.Add(delay.Seconds())
}
