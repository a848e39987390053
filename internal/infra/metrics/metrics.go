package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	KVOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daybook_kv_ops_total",
		Help: "Key-value store operations by op and backend.",
	}, []string{"op", "backend"})

	NotificationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "daybook_notification_generations_total",
		Help: "Notification regeneration runs.",
	})
)
