package repository

import (
	"database/sql"
	"errors"

	"mtmonitor/internal/models"
)

// Ошибки репозитория истории
var (
	ErrNoHistory = errors.New("no history for account")
)

// HistoryRepository - работа с таблицей history.
//
// Таблица append-only: ядро никогда не изменяет и не удаляет
// записанные точки. Схему владеет миграция (migrations/001_init.sql).
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository создает новый экземпляр репозитория
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Insert добавляет точку истории
func (r *HistoryRepository) Insert(s *models.HistorySample) error {
	query := `
		INSERT INTO history (account_name, timestamp, balance, equity, profit, today_pnl, total_pnl, best_day_ratio, profit_progress_pct)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(
		query,
		s.AccountName,
		s.Timestamp,
		s.Balance,
		s.Equity,
		s.Profit,
		s.TodayPnl,
		s.TotalPnl,
		s.BestDayRatio,
		s.ProfitProgressPct,
	)
	return err
}

// LatestTimestamp возвращает timestamp последней сохранённой точки
// аккаунта. Если истории ещё нет - ErrNoHistory.
func (r *HistoryRepository) LatestTimestamp(account string) (int64, error) {
	query := `
		SELECT timestamp FROM history
		WHERE account_name = $1
		ORDER BY timestamp DESC
		LIMIT 1`

	var ts int64
	err := r.db.QueryRow(query, account).Scan(&ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoHistory
		}
		return 0, err
	}
	return ts, nil
}

// GetSince возвращает точки аккаунта начиная с указанного timestamp,
// отсортированные по времени
func (r *HistoryRepository) GetSince(account string, since int64) ([]*models.HistorySample, error) {
	query := `
		SELECT timestamp, balance, equity, profit, today_pnl, total_pnl, best_day_ratio, profit_progress_pct
		FROM history
		WHERE account_name = $1 AND timestamp > $2
		ORDER BY timestamp`

	rows, err := r.db.Query(query, account, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := make([]*models.HistorySample, 0)
	for rows.Next() {
		s := &models.HistorySample{}
		if err := rows.Scan(
			&s.Timestamp,
			&s.Balance,
			&s.Equity,
			&s.Profit,
			&s.TodayPnl,
			&s.TotalPnl,
			&s.BestDayRatio,
			&s.ProfitProgressPct,
		); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	return samples, rows.Err()
}
