package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Дефолтные параметры живости, общие на все аккаунты.
// Аккаунт offline, если снапшотов не было дольше OfflineTimeout;
// проверка каждые SweepInterval.
const (
	OfflineTimeout = 60 * time.Second
	SweepInterval  = 30 * time.Second
)

// Sweeper периодически помечает замолчавшие аккаунты как offline.
// Переход только online → offline; оживляет аккаунт исключительно
// свежий снапшот через Engine.ProcessSnapshot.
type Sweeper struct {
	store    *Store
	hub      Broadcaster
	log      *zap.SugaredLogger
	interval time.Duration
	timeout  time.Duration
}

// NewSweeper создаёт sweeper. Неположительные интервалы заменяются
// дефолтами SweepInterval / OfflineTimeout.
func NewSweeper(store *Store, hub Broadcaster, log *zap.SugaredLogger, interval, timeout time.Duration) *Sweeper {
	if interval <= 0 {
		interval = SweepInterval
	}
	if timeout <= 0 {
		timeout = OfflineTimeout
	}
	return &Sweeper{
		store:    store,
		hub:      hub,
		log:      log,
		interval: interval,
		timeout:  timeout,
	}
}

// Run - цикл sweeper'а, живёт до отмены контекста
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

// sweep - один проход. Broadcast идёт после каждого прохода независимо
// от того, изменился ли кто-то: push дешёвый и идемпотентный.
func (s *Sweeper) sweep(now time.Time) {
	flipped := s.store.MarkOfflineIfStale(now, s.timeout)
	if flipped > 0 {
		s.log.Infow("accounts marked offline", "count", flipped)
	}

	online, offline := s.store.CountByStatus()
	UpdateAccountCounts(online, offline)

	if s.hub != nil {
		s.hub.BroadcastUpdate(s.store.SnapshotAll())
		BroadcastsTotal.Inc()
	}
}
