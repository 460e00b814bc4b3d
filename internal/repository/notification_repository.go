package repository

import (
	"database/sql"

	"mtmonitor/internal/models"
)

// NotificationRepository - работа с журналом уведомлений
// (таблица notifications)
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository создает новый экземпляр репозитория
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create записывает доставленное уведомление в журнал
func (r *NotificationRepository) Create(n *models.Notification) error {
	query := `
		INSERT INTO notifications (account_name, alert_type, message, sent_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return r.db.QueryRow(
		query,
		n.AccountName,
		n.AlertType,
		n.Message,
		n.SentAt,
	).Scan(&n.ID)
}

// GetRecent возвращает последние limit уведомлений (новые сверху)
func (r *NotificationRepository) GetRecent(limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, account_name, alert_type, message, sent_at
		FROM notifications
		ORDER BY sent_at DESC
		LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifs := make([]*models.Notification, 0)
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.AccountName, &n.AlertType, &n.Message, &n.SentAt); err != nil {
			return nil, err
		}
		notifs = append(notifs, n)
	}

	return notifs, rows.Err()
}

// Count возвращает общее количество уведомлений в журнале
func (r *NotificationRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications`).Scan(&count)
	return count, err
}
