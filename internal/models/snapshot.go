package models

import (
	"errors"
	"time"
)

// Ошибки валидации снапшота
var (
	ErrMissingAccountName = errors.New("snapshot is missing account_name")
	ErrMissingTimestamp   = errors.New("snapshot is missing timestamp")
)

// Дефолты для полей конфигурации, которые терминал может не прислать
const (
	DefaultCurrency            = "USD"
	DefaultAccountType         = AccountTypeLive
	DefaultMaxDailyLossPct     = 5
	DefaultMaxTotalLossPct     = 10
	DefaultProfitTargetPct     = 10
	DefaultDailyLossAlertPct   = 5
	DefaultDailyProfitAlertPct = 0
)

// Snapshot - сырой снапшот состояния аккаунта от терминала.
//
// Поля с указателями различают "не прислали" и "прислали ноль":
// для них дефолт не нулевой (проценты лимитов, либо текущий баланс
// для initial/highest/yesterday balance). Остальные отсутствующие
// числовые поля декодируются в 0, булевы - в false.
//
// Транспорты не применяют доменную логику: HTTP подставляет timestamp
// текущим временем, если терминал его не прислал, и передаёт снапшот
// в ядро как есть.
type Snapshot struct {
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

	Balance        float64 `json:"balance"`
	Equity         float64 `json:"equity"`
	Margin         float64 `json:"margin"`
	FreeMargin     float64 `json:"free_margin"`
	Profit         float64 `json:"profit"`
	OpenProfit     float64 `json:"open_profit"`
	MarginLevel    float64 `json:"margin_level"`
	PositionsCount int     `json:"positions_count"`
	OpenVolume     float64 `json:"open_volume"`

	ChallengeSize         float64  `json:"challenge_size"`
	InitialBalance        *float64 `json:"initial_balance"`
	HighestBalance        *float64 `json:"highest_balance"`
	YesterdayBalance      *float64 `json:"yesterday_balance"`
	DailyLossLimit        float64  `json:"daily_loss_limit"`
	DailyLossRemaining    float64  `json:"daily_loss_remaining"`
	TotalLossLimit        float64  `json:"total_loss_limit"`
	TotalLossRemaining    float64  `json:"total_loss_remaining"`
	ProfitTargetRemaining float64  `json:"profit_target_remaining"`
	ProfitProgressPct     float64  `json:"profit_progress_pct"`
	BestDayProfit         float64  `json:"best_day_profit"`
	BestDayRatio          float64  `json:"best_day_ratio"`
	BestDayRemaining      float64  `json:"best_day_remaining"`
	BestDayPassed         bool     `json:"best_day_passed"`
	MaxDailyLossPct       *float64 `json:"max_daily_loss_pct"`
	MaxTotalLossPct       *float64 `json:"max_total_loss_pct"`
	ProfitTargetPct       *float64 `json:"profit_target_pct"`

	TodayPnl            float64  `json:"today_pnl"`
	TodayPnlPct         float64  `json:"today_pnl_pct"`
	WeekPnl             float64  `json:"week_pnl"`
	MonthPnl            float64  `json:"month_pnl"`
	TotalPnl            float64  `json:"total_pnl"`
	TotalPnlPct         float64  `json:"total_pnl_pct"`
	AvgDailyPnl         float64  `json:"avg_daily_pnl"`
	WinRate             float64  `json:"win_rate"`
	ProfitableDays      int      `json:"profitable_days"`
	LosingDays          int      `json:"losing_days"`
	MaxDrawdown         float64  `json:"max_drawdown"`
	MaxDrawdownPct      float64  `json:"max_drawdown_pct"`
	SharpeRatio         float64  `json:"sharpe_ratio"`
	TradingDays         int      `json:"trading_days"`
	DailyLossAlertPct   *float64 `json:"daily_loss_alert_pct"`
	DailyProfitAlertPct *float64 `json:"daily_profit_alert_pct"`
}

// Validate проверяет обязательные поля снапшота.
// При ошибке валидации состояние хранилища не меняется.
func (s *Snapshot) Validate() error {
	if s.AccountName == "" {
		return ErrMissingAccountName
	}
	if s.Timestamp <= 0 {
		return ErrMissingTimestamp
	}
	return nil
}

// ToAccount строит новую запись аккаунта из снапшота, применяя дефолты.
//
// Запись создаётся со статусом online и безопасными уровнями риска;
// классификатор пересчитает риски и перенесёт флаг дедупликации
// из предыдущей записи.
func (s *Snapshot) ToAccount(now time.Time) *AccountData {
	acc := &AccountData{
		Timestamp:   s.Timestamp,
		AccountName: s.AccountName,
		AccountType: s.AccountType,
		PropFirm:    s.PropFirm,
		Login:       s.Login,
		Company:     s.Company,
		Server:      s.Server,
		Currency:    s.Currency,
		IsCent:      s.IsCent,
		IsFTMO1Step: s.IsFTMO1Step,

		Balance:        s.Balance,
		Equity:         s.Equity,
		Margin:         s.Margin,
		FreeMargin:     s.FreeMargin,
		Profit:         s.Profit,
		OpenProfit:     s.OpenProfit,
		MarginLevel:    s.MarginLevel,
		PositionsCount: s.PositionsCount,
		OpenVolume:     s.OpenVolume,

		ChallengeSize:         s.ChallengeSize,
		InitialBalance:        defaultFloat(s.InitialBalance, s.Balance),
		HighestBalance:        defaultFloat(s.HighestBalance, s.Balance),
		YesterdayBalance:      defaultFloat(s.YesterdayBalance, s.Balance),
		DailyLossLimit:        s.DailyLossLimit,
		DailyLossRemaining:    s.DailyLossRemaining,
		TotalLossLimit:        s.TotalLossLimit,
		TotalLossRemaining:    s.TotalLossRemaining,
		ProfitTargetRemaining: s.ProfitTargetRemaining,
		ProfitProgressPct:     s.ProfitProgressPct,
		BestDayProfit:         s.BestDayProfit,
		BestDayRatio:          s.BestDayRatio,
		BestDayRemaining:      s.BestDayRemaining,
		BestDayPassed:         s.BestDayPassed,
		MaxDailyLossPct:       defaultFloat(s.MaxDailyLossPct, DefaultMaxDailyLossPct),
		MaxTotalLossPct:       defaultFloat(s.MaxTotalLossPct, DefaultMaxTotalLossPct),
		ProfitTargetPct:       defaultFloat(s.ProfitTargetPct, DefaultProfitTargetPct),

		TodayPnl:            s.TodayPnl,
		TodayPnlPct:         s.TodayPnlPct,
		WeekPnl:             s.WeekPnl,
		MonthPnl:            s.MonthPnl,
		TotalPnl:            s.TotalPnl,
		TotalPnlPct:         s.TotalPnlPct,
		AvgDailyPnl:         s.AvgDailyPnl,
		WinRate:             s.WinRate,
		ProfitableDays:      s.ProfitableDays,
		LosingDays:          s.LosingDays,
		MaxDrawdown:         s.MaxDrawdown,
		MaxDrawdownPct:      s.MaxDrawdownPct,
		SharpeRatio:         s.SharpeRatio,
		TradingDays:         s.TradingDays,
		DailyLossAlertPct:   defaultFloat(s.DailyLossAlertPct, DefaultDailyLossAlertPct),
		DailyProfitAlertPct: defaultFloat(s.DailyProfitAlertPct, DefaultDailyProfitAlertPct),

		LastSeen: now,
		Status:   StatusOnline,

		DailyLossRisk:    RiskSafe,
		TotalLossRisk:    RiskSafe,
		ProfitTargetRisk: TargetPending,
	}

	if acc.Currency == "" {
		acc.Currency = DefaultCurrency
	}
	if acc.AccountType == "" {
		acc.AccountType = DefaultAccountType
	}

	return acc
}

func defaultFloat(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
