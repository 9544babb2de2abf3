package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	GeocodeSeconds *prometheus.HistogramVec
	GeocodeErrors  prometheus.Counter
	SearchesTotal  *prometheus.CounterVec
	BookingsTotal  *prometheus.CounterVec
	EmailsTotal    *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "asclepius_geocoding_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		GeocodeErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "asclepius_geocoding_provider_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		SearchesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "asclepius_doctor_searches_total",
			Help: "Total number of nearby doctor searches.",
		}, []string{"status"}),
		BookingsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "asclepius_bookings_total",
			Help: "Total number of booking submissions.",
		}, []string{"status"}),
		EmailsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "asclepius_confirmation_emails_total",
			Help: "Total number of confirmation email deliveries.",
		}, []string{"status"}),
		ActiveSessions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "asclepius_active_sessions",
			Help: "Current number of live widget sessions.",
		}),
	}
}
