package service

import (
	"mtmonitor/internal/models"
	"mtmonitor/internal/repository"
)

// NotificationService - выдача журнала уведомлений для API
type NotificationService struct {
	repo *repository.NotificationRepository
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// GetRecent возвращает последние уведомления (новые сверху).
// Лимит по умолчанию 100, максимум 500.
func (s *NotificationService) GetRecent(limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	return s.repo.GetRecent(limit)
}

// Count возвращает общее количество уведомлений
func (s *NotificationService) Count() (int, error) {
	return s.repo.Count()
}
