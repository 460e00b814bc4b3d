package models

import "time"

// Уровни риска по лимитам потерь
const (
	RiskSafe    = "safe"
	RiskWarning = "warning"
	RiskDanger  = "danger"
)

// Статусы прогресса к profit target (монотонная шкала по проценту)
const (
	TargetPending   = "pending"
	TargetProgress  = "progress"
	TargetClose     = "close"
	TargetCompleted = "completed"
)

// Статусы живости аккаунта
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Типы аккаунтов, присылаемые терминалом
const (
	AccountTypeLive     = "LIVE"
	AccountTypeCent     = "CENT"
	AccountTypeDemo     = "DEMO"
	AccountTypeFTMO     = "PROP_FTMO"
	AccountTypeDarwinex = "PROP_DARWINEX"
	AccountType5ers     = "PROP_5ERS"
)

// AccountData - актуальное состояние одного торгового аккаунта.
//
// Запись полностью заменяется при каждом снапшоте от терминала.
// Единственное поле с памятью между снапшотами - AlertSent (дедупликация
// уведомлений), оно переносится из предыдущей записи при upsert.
//
// Поля статуса (Status, *Risk, PnLAlertTriggered, AlertSent) принадлежат
// ядру мониторинга и пересчитываются классификатором; всё остальное
// приходит от терминала как есть.
type AccountData struct {
	// Идентификация
	Timestamp   int64  `json:"timestamp"`
	AccountName string `json:"account_name"`
	AccountType string `json:"account_type"`
	PropFirm    string `json:"prop_firm"`
	Login       int64  `json:"login"`
	Company     string `json:"company"`
	Server      string `json:"server"`
	Currency    string `json:"currency"`
	IsCent      bool   `json:"is_cent"`
	IsFTMO1Step bool   `json:"is_ftmo_1step"`

	// Финансовый снапшот
	Balance        float64 `json:"balance"`
	Equity         float64 `json:"equity"`
	Margin         float64 `json:"margin"`
	FreeMargin     float64 `json:"free_margin"`
	Profit         float64 `json:"profit"`
	OpenProfit     float64 `json:"open_profit"`
	MarginLevel    float64 `json:"margin_level"`
	PositionsCount int     `json:"positions_count"`
	OpenVolume     float64 `json:"open_volume"`

	// Параметры челленджа и лимиты
	ChallengeSize         float64 `json:"challenge_size"`
	InitialBalance        float64 `json:"initial_balance"`
	HighestBalance        float64 `json:"highest_balance"`
	YesterdayBalance      float64 `json:"yesterday_balance"`
	DailyLossLimit        float64 `json:"daily_loss_limit"`
	DailyLossRemaining    float64 `json:"daily_loss_remaining"`
	TotalLossLimit        float64 `json:"total_loss_limit"`
	TotalLossRemaining    float64 `json:"total_loss_remaining"`
	ProfitTargetRemaining float64 `json:"profit_target_remaining"`
	ProfitProgressPct     float64 `json:"profit_progress_pct"`
	BestDayProfit         float64 `json:"best_day_profit"`
	BestDayRatio          float64 `json:"best_day_ratio"`
	BestDayRemaining      float64 `json:"best_day_remaining"`
	BestDayPassed         bool    `json:"best_day_passed"`
	MaxDailyLossPct       float64 `json:"max_daily_loss_pct"`
	MaxTotalLossPct       float64 `json:"max_total_loss_pct"`
	ProfitTargetPct       float64 `json:"profit_target_pct"`

	// PnL статистика (считается терминалом, ядро её не пересчитывает)
	TodayPnl            float64 `json:"today_pnl"`
	TodayPnlPct         float64 `json:"today_pnl_pct"`
	WeekPnl             float64 `json:"week_pnl"`
	MonthPnl            float64 `json:"month_pnl"`
	TotalPnl            float64 `json:"total_pnl"`
	TotalPnlPct         float64 `json:"total_pnl_pct"`
	AvgDailyPnl         float64 `json:"avg_daily_pnl"`
	WinRate             float64 `json:"win_rate"`
	ProfitableDays      int     `json:"profitable_days"`
	LosingDays          int     `json:"losing_days"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	MaxDrawdownPct      float64 `json:"max_drawdown_pct"`
	SharpeRatio         float64 `json:"sharpe_ratio"`
	TradingDays         int     `json:"trading_days"`
	DailyLossAlertPct   float64 `json:"daily_loss_alert_pct"`
	DailyProfitAlertPct float64 `json:"daily_profit_alert_pct"`

	// Runtime поля ядра
	LastSeen time.Time `json:"last_seen"`
	Status   string    `json:"status"`

	// Риск-классификация
	DailyLossRisk     string `json:"daily_loss_risk"`
	TotalLossRisk     string `json:"total_loss_risk"`
	ProfitTargetRisk  string `json:"profit_target_risk"`
	PnLAlertTriggered bool   `json:"pnl_alert_triggered"`
	AlertSent         bool   `json:"alert_sent"`
}

// IsProp сообщает, является ли аккаунт prop-firm аккаунтом
func (a *AccountData) IsProp() bool {
	switch a.AccountType {
	case AccountTypeFTMO, AccountTypeDarwinex, AccountType5ers:
		return true
	}
	return false
}
