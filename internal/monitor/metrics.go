package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики ядра мониторинга
// ============================================================
//
// Использование:
// - Grafana дашборды (поток снапшотов, глубина очереди уведомлений)
// - Alertmanager (рост alerts_dropped_total = переполнение очереди)

// SnapshotsProcessed - обработанные снапшоты по результату
var SnapshotsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "mtmonitor",
		Subsystem: "ingest",
		Name:      "snapshots_total",
		Help:      "Total number of processed account snapshots",
	},
	[]string{"result"}, // ok, invalid
)

// AlertsEnqueued - алерты, поставленные в очередь уведомлений
var AlertsEnqueued = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "mtmonitor",
		Subsystem: "alerts",
		Name:      "enqueued_total",
		Help:      "Total number of alerts enqueued for delivery",
	},
	[]string{"severity"},
)

// AlertsDropped - алерты, потерянные из-за переполнения очереди
var AlertsDropped = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "mtmonitor",
		Subsystem: "alerts",
		Name:      "dropped_total",
		Help:      "Number of alerts dropped due to a full notification queue",
	},
)

// AlertsDelivered - результаты доставки уведомлений
var AlertsDelivered = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "mtmonitor",
		Subsystem: "alerts",
		Name:      "delivered_total",
		Help:      "Delivery attempts by final result",
	},
	[]string{"result"}, // ok, failed
)

// NotificationQueueDepth - текущая глубина очереди уведомлений
var NotificationQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "mtmonitor",
		Subsystem: "alerts",
		Name:      "queue_depth",
		Help:      "Current number of alerts waiting in the notification queue",
	},
)

// AccountsByStatus - количество аккаунтов по статусу живости
var AccountsByStatus = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "mtmonitor",
		Subsystem: "accounts",
		Name:      "by_status",
		Help:      "Number of tracked accounts by liveness status",
	},
	[]string{"status"}, // online, offline
)

// HistorySamples - записанные и пропущенные (даунсемплинг) точки истории
var HistorySamples = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "mtmonitor",
		Subsystem: "history",
		Name:      "samples_total",
		Help:      "History samples by outcome",
	},
	[]string{"outcome"}, // written, skipped, failed
)

// BroadcastsTotal - отправленные broadcast'ы полного состояния
var BroadcastsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "mtmonitor",
		Subsystem: "ws",
		Name:      "broadcasts_total",
		Help:      "Number of full-state broadcasts pushed to viewers",
	},
)

// ConnectedViewers - подключённые live-viewer'ы
var ConnectedViewers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "mtmonitor",
		Subsystem: "ws",
		Name:      "connected_viewers",
		Help:      "Current number of connected websocket viewers",
	},
)

// ============ Вспомогательные функции ============

// RecordSnapshot учитывает результат обработки снапшота
func RecordSnapshot(ok bool) {
	if ok {
		SnapshotsProcessed.WithLabelValues("ok").Inc()
	} else {
		SnapshotsProcessed.WithLabelValues("invalid").Inc()
	}
}

// UpdateAccountCounts обновляет gauge'и статусов аккаунтов
func UpdateAccountCounts(online, offline int) {
	AccountsByStatus.WithLabelValues("online").Set(float64(online))
	AccountsByStatus.WithLabelValues("offline").Set(float64(offline))
}

// UpdateConnectedViewers обновляет gauge подключённых viewer'ов
func UpdateConnectedViewers(n int) {
	ConnectedViewers.Set(float64(n))
}
