// Package metrics exposes sensor readings and poll health to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	value    *prometheus.GaugeVec
	status   *prometheus.GaugeVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	lastPoll *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "smh_sensor_value",
			Help: "Last value read for a sensor capability.",
		}, []string{"sensor", "cap"}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "smh_sensor_status",
			Help: "Status byte reported with the last reading (255 = read failed).",
		}, []string{"sensor"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smh_sensor_poll_errors_total",
			Help: "Failed sensor polls.",
		}, []string{"sensor"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smh_sensor_poll_seconds",
			Help:    "Time spent reading one sensor.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5},
		}, []string{"sensor"}),
		lastPoll: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "smh_sensor_last_success_timestamp_seconds",
			Help: "Unix time of the last successful poll.",
		}, []string{"sensor"}),
	}
	m.registry.MustRegister(m.value, m.status, m.errors, m.duration, m.lastPoll)
	return m
}

// Observe records one poll. values maps capability to reading and may be
// partial; err marks the poll as failed.
func (m *Metrics) Observe(sensor string, values map[string]float64, status byte, took time.Duration, err error) {
	m.duration.WithLabelValues(sensor).Observe(took.Seconds())
	m.status.WithLabelValues(sensor).Set(float64(status))
	for c, v := range values {
		m.value.WithLabelValues(sensor, c).Set(v)
	}
	if err != nil {
		m.errors.WithLabelValues(sensor).Inc()
		return
	}
	m.lastPoll.WithLabelValues(sensor).SetToCurrentTime()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
