package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WSConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kanban", Name: "ws_connections", Help: "Active WebSocket subscribers",
	})
	NotificationsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kanban", Name: "notifications_sent_total", Help: "Task events delivered to subscribers",
	})
	NotificationsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kanban", Name: "notifications_failed_total", Help: "Task event deliveries that failed",
	})
)

func init() {
	prometheus.MustRegister(WSConnections, NotificationsSent, NotificationsFailed)
}

func Handler() http.Handler { return promhttp.Handler() }
