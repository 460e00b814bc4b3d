package handlers

import (
	"net/http"
	"strconv"

	"mtmonitor/internal/models"
	"mtmonitor/internal/service"
)

// NotificationHandler отдаёт журнал отправленных уведомлений
//
// Endpoints:
// - GET /api/v1/notifications - последние уведомления
// - GET /api/v1/notifications?limit=50 - с ограничением количества
//
// Назначение:
// Журнал заполняется пайплайном уведомлений после успешной доставки
// алерта; handler только читает его для дашборда.
type NotificationHandler struct {
	notifications service.NotificationServiceInterface
}

// NewNotificationHandler создает новый NotificationHandler с внедрением зависимости
func NewNotificationHandler(notifications service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GetNotificationsResponse представляет ответ списка уведомлений
type GetNotificationsResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int                    `json:"total"`
}

// GetNotifications возвращает последние уведомления (новые сверху)
//
// GET /api/v1/notifications
//
// Query параметры:
// - limit (int): количество записей (по умолчанию 100, максимум 500)
//
// HTTP коды:
// - 200 OK: успешно
// - 500 Internal Server Error: ошибка БД
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if param := r.URL.Query().Get("limit"); param != "" {
		if parsed, err := strconv.Atoi(param); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	notifications, err := h.notifications.GetRecent(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get notifications: "+err.Error())
		return
	}

	if notifications == nil {
		notifications = []*models.Notification{}
	}

	respondWithJSON(w, http.StatusOK, GetNotificationsResponse{
		Notifications: notifications,
		Total:         len(notifications),
	})
}
