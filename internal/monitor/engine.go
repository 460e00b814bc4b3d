package monitor

import (
	"time"

	"go.uber.org/zap"

	"mtmonitor/internal/models"
)

// Broadcaster рассылает полное текущее состояние подключённым
// viewer'ам. Интерфейс разрывает зависимость ядра от websocket
// пакета и упрощает тестирование.
type Broadcaster interface {
	BroadcastUpdate(state map[string]*models.AccountData)
}

// HistoryRecorder условно сохраняет точку истории для записи аккаунта
// (даунсемплинг и обработка ошибок - внутри реализации, best-effort).
type HistoryRecorder interface {
	Record(acc *models.AccountData)
}

// AlertSink принимает алерты классификатора (очередь уведомлений)
type AlertSink interface {
	Enqueue(alert *models.Alert) bool
}

// Engine - точка входа обработки снапшотов: валидация → классификация →
// атомарный upsert → история → алерты → broadcast.
//
// Обновление live-состояния - единственная операция, которая обязана
// либо полностью пройти, либо чисто упасть; ошибки истории, уведомлений
// и broadcast'а локализованы в своих компонентах и до вызывающего
// транспорта не доходят.
type Engine struct {
	store   *Store
	history HistoryRecorder
	alerts  AlertSink
	hub     Broadcaster
	log     *zap.SugaredLogger
	clock   func() time.Time
}

// NewEngine собирает движок мониторинга.
// history, alerts и hub могут быть nil (например, в тестах).
func NewEngine(store *Store, history HistoryRecorder, alerts AlertSink, hub Broadcaster, log *zap.SugaredLogger) *Engine {
	return &Engine{
		store:   store,
		history: history,
		alerts:  alerts,
		hub:     hub,
		log:     log,
		clock:   time.Now,
	}
}

// ProcessSnapshot обрабатывает один снапшот от терминала.
// Возвращает обновлённую запись либо ошибку валидации; все прочие
// сбои деградируют мягко и наружу не поднимаются.
func (e *Engine) ProcessSnapshot(snap *models.Snapshot) (*models.AccountData, error) {
	acc, alerts, err := e.store.Upsert(snap, e.clock())
	if err != nil {
		RecordSnapshot(false)
		return nil, err
	}
	RecordSnapshot(true)

	if e.history != nil {
		e.history.Record(acc)
	}

	if e.alerts != nil {
		for _, alert := range alerts {
			e.alerts.Enqueue(alert)
		}
	}

	e.Broadcast()

	online, offline := e.store.CountByStatus()
	UpdateAccountCounts(online, offline)

	e.log.Debugw("snapshot processed",
		"account", acc.AccountName,
		"daily_loss_risk", acc.DailyLossRisk,
		"total_loss_risk", acc.TotalLossRisk,
		"alerts", len(alerts))

	return acc, nil
}

// CurrentState возвращает согласованную копию состояния всех аккаунтов
func (e *Engine) CurrentState() map[string]*models.AccountData {
	return e.store.SnapshotAll()
}

// AccountCount возвращает количество отслеживаемых аккаунтов
func (e *Engine) AccountCount() int {
	return e.store.Len()
}

// Broadcast пускает полное состояние всем viewer'ам.
// Дёшево и идемпотентно: два подряд broadcast'а могут слиться с точки
// зрения viewer'а, гарантируется только сходимость к последнему
// состоянию.
func (e *Engine) Broadcast() {
	if e.hub == nil {
		return
	}
	e.hub.BroadcastUpdate(e.store.SnapshotAll())
	BroadcastsTotal.Inc()
}
