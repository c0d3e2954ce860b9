package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AlertsCreated cuenta alertas creadas por categoría.
	AlertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petalert_alerts_created_total",
			Help: "Total alerts created by category",
		},
		[]string{"category"},
	)

	// NotificationsEnqueued cuenta notificaciones encoladas por canal.
	NotificationsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petalert_notifications_enqueued_total",
			Help: "Total notifications enqueued by channel",
		},
		[]string{"channel"},
	)

	// FanoutSkips cuenta destinatarios salteados por ya tener fila
	// (reintentos idempotentes del fan-out).
	FanoutSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "petalert_fanout_skips_total",
			Help: "Recipients skipped because a notification row already existed",
		},
	)

	// SendResults cuenta resultados de envío reportados por los
	// adaptadores de canal.
	SendResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petalert_send_results_total",
			Help: "Send results reported by channel adapters, by outcome",
		},
		[]string{"outcome"},
	)
)

// Handler expone el endpoint /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
