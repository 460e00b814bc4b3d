package models

import "time"

// Alert - транзиентное событие, порождённое риск-классификатором.
// Живёт от постановки в очередь до доставки оператору; в БД
// сохраняется уже как Notification.
type Alert struct {
	AccountName string    `json:"account"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Severity    string    `json:"level"`
	Timestamp   time.Time `json:"timestamp"`
}

// Типы алертов риск-классификатора
const (
	AlertTypeDailyLossLimit   = "Daily Loss Limit"
	AlertTypeDailyLossWarning = "Daily Loss Warning"
	AlertTypeTotalLossLimit   = "Total Loss Limit"
	AlertTypeTotalLossWarning = "Total Loss Warning"
	AlertTypeProfitTarget     = "Profit Target Reached"
	AlertTypePnL              = "PnL Alert"
)

// Уровни важности алертов
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

// Notification - записанное в журнал уведомление (таблица notifications)
type Notification struct {
	ID          int       `json:"id" db:"id"`
	AccountName string    `json:"account_name" db:"account_name"`
	AlertType   string    `json:"alert_type" db:"alert_type"`
	Message     string    `json:"message" db:"message"`
	SentAt      time.Time `json:"sent_at" db:"sent_at"`
}

// HistorySample - точка временного ряда аккаунта (таблица history).
// Пишется не чаще одного раза в окно даунсемплинга, никогда не
// изменяется и не удаляется ядром.
type HistorySample struct {
	AccountName       string  `json:"account_name,omitempty" db:"account_name"`
	Timestamp         int64   `json:"timestamp" db:"timestamp"`
	Balance           float64 `json:"balance" db:"balance"`
	Equity            float64 `json:"equity" db:"equity"`
	Profit            float64 `json:"profit" db:"profit"`
	TodayPnl          float64 `json:"today_pnl" db:"today_pnl"`
	TotalPnl          float64 `json:"total_pnl" db:"total_pnl"`
	BestDayRatio      float64 `json:"best_day_ratio" db:"best_day_ratio"`
	ProfitProgressPct float64 `json:"profit_progress_pct" db:"profit_progress_pct"`
}
