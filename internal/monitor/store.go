package monitor

import (
	"sync"
	"time"

	"mtmonitor/internal/models"
)

// Store - авторитетное in-memory хранилище актуального состояния
// аккаунтов: имя аккаунта → последняя запись.
//
// Один mutex сериализует все read/modify/write последовательности:
// два конкурентных снапшота одного аккаунта не могут переплестись
// (lost update), а читатель никогда не видит частично обновлённую
// карту. Единица мутации - один upsert либо один полный проход
// sweeper'а, отдельные поля никогда не меняются без блокировки.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*models.AccountData
}

// NewStore создаёт пустое хранилище
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*models.AccountData),
	}
}

// Upsert валидирует снапшот, прогоняет классификатор и атомарно
// заменяет запись аккаунта. Флаг дедупликации переносится из
// предыдущей записи внутри Classify. При ошибке валидации хранилище
// не меняется.
func (s *Store) Upsert(snap *models.Snapshot, now time.Time) (*models.AccountData, []*models.Alert, error) {
	if err := snap.Validate(); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.accounts[snap.AccountName]
	acc, alerts := Classify(prev, snap, now)
	s.accounts[snap.AccountName] = acc

	return acc, alerts, nil
}

// SnapshotAll возвращает согласованную копию состояния на момент
// вызова. Записи копируются по значению, чтобы последующие мутации
// (sweeper, новые снапшоты) не были видны получателю.
func (s *Store) SnapshotAll() map[string]*models.AccountData {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*models.AccountData, len(s.accounts))
	for name, acc := range s.accounts {
		cp := *acc
		out[name] = &cp
	}
	return out
}

// Get возвращает копию записи аккаунта, если она есть
func (s *Store) Get(name string) (*models.AccountData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[name]
	if !ok {
		return nil, false
	}
	cp := *acc
	return &cp, true
}

// Len возвращает количество известных аккаунтов
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// MarkOfflineIfStale переводит в offline все аккаунты, от которых не
// было снапшота дольше timeout. Переход односторонний: обратно в
// online аккаунт возвращает только свежий снапшот через Upsert.
// Возвращает количество переключённых записей.
func (s *Store) MarkOfflineIfStale(now time.Time, timeout time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	flipped := 0
	for _, acc := range s.accounts {
		if acc.Status == models.StatusOnline && now.Sub(acc.LastSeen) > timeout {
			acc.Status = models.StatusOffline
			flipped++
		}
	}
	return flipped
}

// CountByStatus возвращает количество online и offline аккаунтов
func (s *Store) CountByStatus() (online, offline int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if acc.Status == models.StatusOnline {
			online++
		} else {
			offline++
		}
	}
	return online, offline
}
