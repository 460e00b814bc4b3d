package monitor

import (
	"testing"
	"time"

	"mtmonitor/internal/models"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// baseSnapshot - валидный снапшот без рисков: все remaining с запасом,
// PnL нейтральный
func baseSnapshot(name string) *models.Snapshot {
	initial := 10000.0
	return &models.Snapshot{
		Timestamp:          testNow.Unix(),
		AccountName:        name,
		Balance:            10000,
		Equity:             10000,
		ChallengeSize:      10000,
		InitialBalance:     &initial,
		DailyLossRemaining: 500,
		TotalLossRemaining: 1000,
	}
}

func TestClassify_OneStepDailyLoss(t *testing.T) {
	tests := []struct {
		name       string
		remaining  float64
		wantRisk   string
		wantAlerts int
		wantType   string
	}{
		{
			name:       "remaining below 1 percent of challenge is danger",
			remaining:  50, // 1% от 10000 = 100
			wantRisk:   models.RiskDanger,
			wantAlerts: 1,
			wantType:   models.AlertTypeDailyLossWarning,
		},
		{
			name:       "remaining zero is exceeded limit",
			remaining:  0,
			wantRisk:   models.RiskDanger,
			wantAlerts: 1,
			wantType:   models.AlertTypeDailyLossLimit,
		},
		{
			name:       "remaining below 1.5 percent is warning without alert",
			remaining:  120,
			wantRisk:   models.RiskWarning,
			wantAlerts: 0,
		},
		{
			name:       "comfortable remaining is safe",
			remaining:  500,
			wantRisk:   models.RiskSafe,
			wantAlerts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot("ftmo-1")
			snap.IsFTMO1Step = true
			snap.DailyLossRemaining = tt.remaining

			acc, alerts := Classify(nil, snap, testNow)

			if acc.DailyLossRisk != tt.wantRisk {
				t.Errorf("expected daily loss risk %q, got %q", tt.wantRisk, acc.DailyLossRisk)
			}
			if len(alerts) != tt.wantAlerts {
				t.Fatalf("expected %d alerts, got %d", tt.wantAlerts, len(alerts))
			}
			if tt.wantAlerts > 0 && alerts[0].Type != tt.wantType {
				t.Errorf("expected alert type %q, got %q", tt.wantType, alerts[0].Type)
			}
		})
	}
}

func TestClassify_StandardDailyLoss(t *testing.T) {
	tests := []struct {
		name       string
		remaining  float64
		wantRisk   string
		wantAlerts int
		wantType   string
	}{
		{
			// бюджет 5% от 10000 = 500
			name:       "full budget used is danger",
			remaining:  0,
			wantRisk:   models.RiskDanger,
			wantAlerts: 1,
			wantType:   models.AlertTypeDailyLossLimit,
		},
		{
			name:       "90 percent used is warning",
			remaining:  50,
			wantRisk:   models.RiskWarning,
			wantAlerts: 1,
			wantType:   models.AlertTypeDailyLossWarning,
		},
		{
			name:       "half budget used is safe",
			remaining:  250,
			wantRisk:   models.RiskSafe,
			wantAlerts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot("std-1")
			snap.DailyLossRemaining = tt.remaining

			acc, alerts := Classify(nil, snap, testNow)

			if acc.DailyLossRisk != tt.wantRisk {
				t.Errorf("expected daily loss risk %q, got %q", tt.wantRisk, acc.DailyLossRisk)
			}
			if len(alerts) != tt.wantAlerts {
				t.Fatalf("expected %d alerts, got %d", tt.wantAlerts, len(alerts))
			}
			if tt.wantAlerts > 0 && alerts[0].Type != tt.wantType {
				t.Errorf("expected alert type %q, got %q", tt.wantType, alerts[0].Type)
			}
		})
	}
}

func TestClassify_TotalLoss(t *testing.T) {
	tests := []struct {
		name       string
		remaining  float64
		wantRisk   string
		wantAlerts int
		wantType   string
	}{
		{
			name:       "remaining zero is exceeded limit",
			remaining:  0,
			wantRisk:   models.RiskDanger,
			wantAlerts: 1,
			wantType:   models.AlertTypeTotalLossLimit,
		},
		{
			name:       "remaining below 2 percent of challenge is danger",
			remaining:  150,
			wantRisk:   models.RiskDanger,
			wantAlerts: 1,
			wantType:   models.AlertTypeTotalLossWarning,
		},
		{
			name:       "remaining below 5 percent is warning without alert",
			remaining:  400,
			wantRisk:   models.RiskWarning,
			wantAlerts: 0,
		},
		{
			name:       "comfortable remaining is safe",
			remaining:  1000,
			wantRisk:   models.RiskSafe,
			wantAlerts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot("acc-1")
			snap.TotalLossRemaining = tt.remaining

			acc, alerts := Classify(nil, snap, testNow)

			if acc.TotalLossRisk != tt.wantRisk {
				t.Errorf("expected total loss risk %q, got %q", tt.wantRisk, acc.TotalLossRisk)
			}
			if len(alerts) != tt.wantAlerts {
				t.Fatalf("expected %d alerts, got %d", tt.wantAlerts, len(alerts))
			}
			if tt.wantAlerts > 0 && alerts[0].Type != tt.wantType {
				t.Errorf("expected alert type %q, got %q", tt.wantType, alerts[0].Type)
			}
		})
	}
}

func TestClassify_ProfitTarget(t *testing.T) {
	tests := []struct {
		name       string
		progress   float64
		wantRisk   string
		wantAlerts int
	}{
		{"target achieved", 100, models.TargetCompleted, 1},
		{"close to target", 85, models.TargetClose, 0},
		{"halfway", 60, models.TargetProgress, 0},
		{"just started", 10, models.TargetPending, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot("acc-1")
			snap.ProfitProgressPct = tt.progress

			acc, alerts := Classify(nil, snap, testNow)

			if acc.ProfitTargetRisk != tt.wantRisk {
				t.Errorf("expected target status %q, got %q", tt.wantRisk, acc.ProfitTargetRisk)
			}
			if len(alerts) != tt.wantAlerts {
				t.Fatalf("expected %d alerts, got %d", tt.wantAlerts, len(alerts))
			}
			if tt.wantAlerts > 0 {
				if alerts[0].Type != models.AlertTypeProfitTarget {
					t.Errorf("expected profit target alert, got %q", alerts[0].Type)
				}
				if alerts[0].Severity != models.SeverityInfo {
					t.Errorf("expected info severity, got %q", alerts[0].Severity)
				}
			}
		})
	}
}

// Повторный снапшот внутри того же уровня риска не порождает алерт:
// переходы детектируются относительно предыдущей записи.
func TestClassify_NoRepeatAlertWithinLevel(t *testing.T) {
	snap := baseSnapshot("ftmo-1")
	snap.IsFTMO1Step = true
	snap.DailyLossRemaining = 50

	prev, alerts := Classify(nil, snap, testNow)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert on entering danger, got %d", len(alerts))
	}

	next := baseSnapshot("ftmo-1")
	next.IsFTMO1Step = true
	next.DailyLossRemaining = 40

	acc, alerts := Classify(prev, next, testNow.Add(5*time.Second))
	if acc.DailyLossRisk != models.RiskDanger {
		t.Errorf("expected danger to persist, got %q", acc.DailyLossRisk)
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alert on repeated danger snapshot, got %d", len(alerts))
	}
}

// Дедуп-гейт: один проход выпускает максимум один алерт, даже если
// несколько категорий входят в опасный уровень одновременно.
func TestClassify_SingleAlertPerPass(t *testing.T) {
	snap := baseSnapshot("acc-1")
	snap.IsFTMO1Step = true
	snap.DailyLossRemaining = 0
	snap.TotalLossRemaining = 0

	_, alerts := Classify(nil, snap, testNow)

	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert with dedup gate, got %d", len(alerts))
	}
	if alerts[0].Type != models.AlertTypeDailyLossLimit {
		t.Errorf("expected first category to win, got %q", alerts[0].Type)
	}
}

// Взведённый AlertSent подавляет алерты новых категорий, пока PnL
// не вернётся в норму.
func TestClassify_AlertSentSuppressesNewCategories(t *testing.T) {
	// Первый снапшот: PnL алерт взводит и PnLAlertTriggered, и AlertSent
	first := baseSnapshot("acc-1")
	first.TodayPnlPct = -6 // дефолтный порог -5%

	prev, alerts := Classify(nil, first, testNow)
	if len(alerts) != 1 || alerts[0].Type != models.AlertTypePnL {
		t.Fatalf("expected single pnl alert, got %v", alerts)
	}
	if !prev.AlertSent || !prev.PnLAlertTriggered {
		t.Fatal("expected alert_sent and pnl trigger to be armed")
	}

	// Второй снапшот: вход в total danger при взведённом флаге - тишина
	second := baseSnapshot("acc-1")
	second.TodayPnlPct = -6
	second.TotalLossRemaining = 0

	acc, alerts := Classify(prev, second, testNow.Add(5*time.Second))
	if acc.TotalLossRisk != models.RiskDanger {
		t.Errorf("expected total loss danger, got %q", acc.TotalLossRisk)
	}
	if len(alerts) != 0 {
		t.Errorf("expected suppressed alerts while alert_sent armed, got %d", len(alerts))
	}
}

// Возврат PnL в норму разоружает и пороговый флаг, и глобальный
// дедуп-флаг: следующий переход снова алертит.
func TestClassify_PnLRecoveryRearmsAlerts(t *testing.T) {
	first := baseSnapshot("acc-1")
	first.TodayPnlPct = -6

	prev, _ := Classify(nil, first, testNow)

	// PnL восстановился
	second := baseSnapshot("acc-1")
	second.TodayPnlPct = -1

	prev, alerts := Classify(prev, second, testNow.Add(5*time.Second))
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts on recovery, got %d", len(alerts))
	}
	if prev.PnLAlertTriggered || prev.AlertSent {
		t.Fatal("expected both flags disarmed after recovery")
	}

	// Новый вход в danger снова алертит
	third := baseSnapshot("acc-1")
	third.TotalLossRemaining = 0

	_, alerts = Classify(prev, third, testNow.Add(10*time.Second))
	if len(alerts) != 1 || alerts[0].Type != models.AlertTypeTotalLossLimit {
		t.Fatalf("expected rearmed total loss alert, got %v", alerts)
	}
}

// Повторные снапшоты за порогом PnL не дублируют алерт
func TestClassify_PnLAlertNotRepeatedWhileArmed(t *testing.T) {
	first := baseSnapshot("acc-1")
	first.TodayPnlPct = -6

	prev, alerts := Classify(nil, first, testNow)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}

	second := baseSnapshot("acc-1")
	second.TodayPnlPct = -7

	acc, alerts := Classify(prev, second, testNow.Add(5*time.Second))
	if len(alerts) != 0 {
		t.Errorf("expected no repeated pnl alert, got %d", len(alerts))
	}
	if !acc.PnLAlertTriggered {
		t.Error("expected pnl trigger to stay armed")
	}
}

// Профитный порог выключен по умолчанию (0) и не срабатывает на любой
// положительный PnL
func TestClassify_ProfitAlertDisabledByDefault(t *testing.T) {
	snap := baseSnapshot("acc-1")
	snap.TodayPnlPct = 50

	acc, alerts := Classify(nil, snap, testNow)
	if len(alerts) != 0 {
		t.Errorf("expected no alerts with disabled profit threshold, got %d", len(alerts))
	}
	if acc.PnLAlertTriggered {
		t.Error("expected pnl trigger to stay disarmed")
	}
}

func TestClassify_ProfitAlertWhenConfigured(t *testing.T) {
	threshold := 3.0
	snap := baseSnapshot("acc-1")
	snap.DailyProfitAlertPct = &threshold
	snap.TodayPnlPct = 4

	acc, alerts := Classify(nil, snap, testNow)
	if len(alerts) != 1 || alerts[0].Type != models.AlertTypePnL {
		t.Fatalf("expected single pnl alert, got %v", alerts)
	}
	if alerts[0].Severity != models.SeverityInfo {
		t.Errorf("expected info severity for profit alert, got %q", alerts[0].Severity)
	}
	if !acc.PnLAlertTriggered {
		t.Error("expected pnl trigger armed")
	}
}
