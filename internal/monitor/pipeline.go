package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"mtmonitor/internal/models"
	"mtmonitor/pkg/retry"
)

// Notifier доставляет алерт во внешний операторский канал
// (Telegram-бот, почта, лог). Для пайплайна доставка fire-and-forget:
// ошибки ретраятся внутри consumer'а и никогда не останавливают его.
type Notifier interface {
	Send(ctx context.Context, alert *models.Alert) error
}

// NotificationRecorder durably записывает доставленное уведомление
type NotificationRecorder interface {
	Create(n *models.Notification) error
}

// DefaultQueueSize - ёмкость очереди уведомлений по умолчанию
const DefaultQueueSize = 100

// Pipeline - ограниченная очередь алертов с единственным долгоживущим
// consumer'ом.
//
// Продюсеры (обработка снапшотов) ставят алерты без блокировки:
// при переполнении событие отбрасывается и учитывается в метриках -
// потеря уведомления допустима, блокировка пути ингеста нет.
// Exactly-once постановка гарантируется дедуп-гейтом классификатора;
// сам пайплайн гарантирует только at-least-once попытку доставки.
type Pipeline struct {
	queue    chan *models.Alert
	notifier Notifier
	recorder NotificationRecorder
	log      *zap.SugaredLogger
	dropped  atomic.Int64
	retryCfg retry.Config
}

// NewPipeline создаёт пайплайн с очередью указанной ёмкости.
// recorder может быть nil - тогда уведомления не журналируются.
func NewPipeline(queueSize int, notifier Notifier, recorder NotificationRecorder, log *zap.SugaredLogger) *Pipeline {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	cfg := retry.DefaultConfig()
	cfg.InitialDelay = 5 * time.Second
	cfg.MaxRetries = 3
	cfg.RetryIf = retry.RetryIfNotContext

	return &Pipeline{
		queue:    make(chan *models.Alert, queueSize),
		notifier: notifier,
		recorder: recorder,
		log:      log,
		retryCfg: cfg,
	}
}

// Enqueue ставит алерт в очередь без блокировки.
// Возвращает false, если очередь переполнена и событие отброшено.
func (p *Pipeline) Enqueue(alert *models.Alert) bool {
	select {
	case p.queue <- alert:
		AlertsEnqueued.WithLabelValues(alert.Severity).Inc()
		NotificationQueueDepth.Set(float64(len(p.queue)))
		return true
	default:
		p.dropped.Add(1)
		AlertsDropped.Inc()
		p.log.Warnw("notification queue full, alert dropped",
			"account", alert.AccountName, "type", alert.Type)
		return false
	}
}

// Dropped возвращает количество отброшенных алертов
func (p *Pipeline) Dropped() int64 {
	return p.dropped.Load()
}

// Run - цикл consumer'а. Запускается в отдельной горутине и живёт до
// отмены контекста; ошибки доставки и записи логируются и никогда не
// завершают цикл.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case alert := <-p.queue:
			NotificationQueueDepth.Set(float64(len(p.queue)))
			p.deliver(ctx, alert)
		}
	}
}

// deliver доставляет один алерт с ретраями и журналирует его.
// Запись в журнал делается только после успешной доставки; сбой записи
// не считается сбоем доставки (дубликат алерта дешевле потери).
func (p *Pipeline) deliver(ctx context.Context, alert *models.Alert) {
	err := retry.Do(ctx, func() error {
		return p.notifier.Send(ctx, alert)
	}, p.retryCfg)

	if err != nil {
		AlertsDelivered.WithLabelValues("failed").Inc()
		p.log.Errorw("alert delivery failed",
			"account", alert.AccountName, "type", alert.Type, "error", err)
		return
	}

	AlertsDelivered.WithLabelValues("ok").Inc()
	p.log.Infow("alert delivered",
		"account", alert.AccountName, "type", alert.Type, "severity", alert.Severity)

	if p.recorder == nil {
		return
	}
	if err := p.recorder.Create(&models.Notification{
		AccountName: alert.AccountName,
		AlertType:   alert.Type,
		Message:     alert.Message,
		SentAt:      alert.Timestamp,
	}); err != nil {
		p.log.Errorw("failed to record notification",
			"account", alert.AccountName, "error", err)
	}
}
