package service

import "mtmonitor/internal/models"

// Интерфейсы сервисного слоя для API handlers.
//
// Позволяют подставлять mock'и в тестах handlers и разрывают
// зависимость api → monitor: handlers видят только контракты.

// MonitorService - контракт ядра мониторинга (реализуется monitor.Engine)
type MonitorService interface {
	// ProcessSnapshot - единственная точка входа для транспортов;
	// транспорты не применяют доменную логику сами
	ProcessSnapshot(snap *models.Snapshot) (*models.AccountData, error)

	// CurrentState возвращает согласованную копию состояния аккаунтов
	CurrentState() map[string]*models.AccountData

	// AccountCount возвращает количество отслеживаемых аккаунтов
	AccountCount() int
}

// HistoryServiceInterface - контракт выдачи истории аккаунта
type HistoryServiceInterface interface {
	GetSince(account string, since int64) ([]*models.HistorySample, error)
}

// NotificationServiceInterface - контракт журнала уведомлений
type NotificationServiceInterface interface {
	GetRecent(limit int) ([]*models.Notification, error)
}
