package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики движка. Регистрируются в default registry,
// экспортируются на /metrics endpoint движка.
var (
	// Exchanges — количество HTTP-обменов с сайтом по фазам задачи.
	Exchanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdp_exchanges_total",
		Help: "Number of site exchanges by task phase",
	}, []string{"phase"})

	// Bans — количество отбитых банов по виду защиты.
	Bans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdp_bans_total",
		Help: "Number of protection bans by kind",
	}, []string{"kind"})

	// TasksCreated — количество созданных задач.
	TasksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sdp_tasks_created_total",
		Help: "Number of created tasks",
	})

	// TasksFinished — количество завершённых задач по терминальному состоянию.
	TasksFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdp_tasks_finished_total",
		Help: "Number of finished tasks by terminal state",
	}, []string{"state"})

	// TasksActive — количество выполняющихся задач.
	TasksActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sdp_tasks_active",
		Help: "Number of currently running tasks",
	})

	// WebhookDeliveries — исходы доставки Discord-уведомлений.
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdp_webhook_deliveries_total",
		Help: "Number of webhook deliveries by result",
	}, []string{"result"})
)
