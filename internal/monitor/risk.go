package monitor

import (
	"fmt"
	"time"

	"mtmonitor/internal/models"
)

// risk.go - риск-классификатор аккаунтов
//
// Чистая функция без I/O и разделяемого состояния: по предыдущей записи
// (или nil) и новому снапшоту вычисляет уровни риска и список алертов.
// Вся память между снапшотами ограничена флагом дедупликации AlertSent
// и предыдущими уровнями риска, по которым детектируются переходы.

// Пороги классификации (доли от challenge size / процент лимита)
const (
	// one-step аккаунты: danger ниже 1% от размера челленджа,
	// warning ниже 1.5%. Порог 1% сознательно классифицируется как
	// danger - у границы лимита закрываемся жёстко.
	oneStepDangerFrac  = 0.01
	oneStepWarningFrac = 0.015

	// стандартные аккаунты: процент использованного дневного бюджета
	stdDangerUsedPct  = 100
	stdWarningUsedPct = 80

	// общий лимит потерь
	totalDangerFrac  = 0.02
	totalWarningFrac = 0.05

	// profit target
	targetCompletedPct = 100
	targetClosePct     = 80
	targetProgressPct  = 50
)

// classifier аккумулирует алерты одного прохода с учётом глобального
// дедуп-флага: пока AlertSent взведён, новые алерты любого типа
// подавляются; первый же выпущенный алерт взводит флаг.
type classifier struct {
	acc    *models.AccountData
	alerts []*models.Alert
	now    time.Time
}

func (c *classifier) raise(alertType, message, severity string) {
	if c.acc.AlertSent {
		return
	}
	c.alerts = append(c.alerts, &models.Alert{
		AccountName: c.acc.AccountName,
		Type:        alertType,
		Message:     message,
		Severity:    severity,
		Timestamp:   c.now,
	})
	c.acc.AlertSent = true
}

// Classify строит новую запись аккаунта из снапшота и вычисляет её
// риск-статусы. prev - предыдущая запись того же аккаунта или nil для
// первого снапшота. Возвращает обновлённую запись и алерты, которые
// нужно поставить в очередь уведомлений.
//
// Переходы детектируются относительно уровней prev: алерт по категории
// выпускается только при входе в соответствующий уровень, повторные
// снапшоты в том же уровне алертов не порождают.
func Classify(prev *models.AccountData, snap *models.Snapshot, now time.Time) (*models.AccountData, []*models.Alert) {
	acc := snap.ToAccount(now)

	prevDaily := models.RiskSafe
	prevTotal := models.RiskSafe
	prevTarget := models.TargetPending
	prevPnLArmed := false
	if prev != nil {
		prevDaily = prev.DailyLossRisk
		prevTotal = prev.TotalLossRisk
		prevTarget = prev.ProfitTargetRisk
		prevPnLArmed = prev.PnLAlertTriggered
		acc.AlertSent = prev.AlertSent
	}

	c := &classifier{acc: acc, now: now}

	c.classifyDailyLoss(prevDaily)
	c.classifyTotalLoss(prevTotal)
	c.classifyProfitTarget(prevTarget)
	c.classifyPnLAlert(prevPnLArmed)

	return acc, c.alerts
}

// classifyDailyLoss - дневной лимит потерь, две политики по типу аккаунта
func (c *classifier) classifyDailyLoss(prevLevel string) {
	acc := c.acc

	if acc.IsFTMO1Step {
		switch {
		case acc.DailyLossRemaining <= 0:
			if prevLevel != models.RiskDanger {
				c.raise(
					models.AlertTypeDailyLossLimit,
					fmt.Sprintf("Daily loss limit exceeded! Remaining: $%.2f", acc.DailyLossRemaining),
					models.SeverityDanger,
				)
			}
			acc.DailyLossRisk = models.RiskDanger
		case acc.DailyLossRemaining < acc.ChallengeSize*oneStepDangerFrac:
			if prevLevel != models.RiskDanger {
				c.raise(
					models.AlertTypeDailyLossWarning,
					fmt.Sprintf("Daily loss limit almost reached! Only $%.2f remaining", acc.DailyLossRemaining),
					models.SeverityWarning,
				)
			}
			acc.DailyLossRisk = models.RiskDanger
		case acc.DailyLossRemaining < acc.ChallengeSize*oneStepWarningFrac:
			acc.DailyLossRisk = models.RiskWarning
		default:
			acc.DailyLossRisk = models.RiskSafe
		}
		return
	}

	// Стандартный аккаунт: считаем процент использованного бюджета
	budget := acc.InitialBalance * acc.MaxDailyLossPct / 100
	usedPct := 0.0
	if acc.InitialBalance > 0 {
		usedPct = (budget - acc.DailyLossRemaining) / budget * 100
	}

	switch {
	case usedPct >= stdDangerUsedPct:
		if prevLevel != models.RiskDanger {
			c.raise(
				models.AlertTypeDailyLossLimit,
				fmt.Sprintf("Daily loss limit exceeded! Used: %.1f%%", usedPct),
				models.SeverityDanger,
			)
		}
		acc.DailyLossRisk = models.RiskDanger
	case usedPct >= stdWarningUsedPct:
		if prevLevel != models.RiskWarning {
			c.raise(
				models.AlertTypeDailyLossWarning,
				fmt.Sprintf("Daily loss at %.1f%% of limit", usedPct),
				models.SeverityWarning,
			)
		}
		acc.DailyLossRisk = models.RiskWarning
	default:
		acc.DailyLossRisk = models.RiskSafe
	}
}

// classifyTotalLoss - общий лимит потерь, политика одна для всех аккаунтов
func (c *classifier) classifyTotalLoss(prevLevel string) {
	acc := c.acc

	switch {
	case acc.TotalLossRemaining <= 0:
		if prevLevel != models.RiskDanger {
			c.raise(
				models.AlertTypeTotalLossLimit,
				"Total loss limit exceeded! Account at risk!",
				models.SeverityDanger,
			)
		}
		acc.TotalLossRisk = models.RiskDanger
	case acc.TotalLossRemaining < acc.ChallengeSize*totalDangerFrac:
		if prevLevel != models.RiskDanger {
			c.raise(
				models.AlertTypeTotalLossWarning,
				fmt.Sprintf("Total loss limit almost reached! Only $%.2f remaining", acc.TotalLossRemaining),
				models.SeverityDanger,
			)
		}
		acc.TotalLossRisk = models.RiskDanger
	case acc.TotalLossRemaining < acc.ChallengeSize*totalWarningFrac:
		acc.TotalLossRisk = models.RiskWarning
	default:
		acc.TotalLossRisk = models.RiskSafe
	}
}

// classifyProfitTarget - четырёхуровневый статус прогресса к цели
func (c *classifier) classifyProfitTarget(prevLevel string) {
	acc := c.acc

	switch {
	case acc.ProfitProgressPct >= targetCompletedPct:
		if prevLevel != models.TargetCompleted {
			c.raise(
				models.AlertTypeProfitTarget,
				fmt.Sprintf("Profit target achieved! Progress: %.1f%%", acc.ProfitProgressPct),
				models.SeverityInfo,
			)
		}
		acc.ProfitTargetRisk = models.TargetCompleted
	case acc.ProfitProgressPct >= targetClosePct:
		acc.ProfitTargetRisk = models.TargetClose
	case acc.ProfitProgressPct >= targetProgressPct:
		acc.ProfitTargetRisk = models.TargetProgress
	default:
		acc.ProfitTargetRisk = models.TargetPending
	}
}

// classifyPnLAlert - пороговый PnL алерт и его разоружение.
//
// Ветка разоружения сбрасывает не только PnLAlertTriggered, но и
// глобальный AlertSent: это единственный путь, повторно разрешающий
// алерты любых категорий для аккаунта. Связка категорий сохранена
// намеренно (поведение исходной системы), вопрос к продукту открыт.
func (c *classifier) classifyPnLAlert(prevArmed bool) {
	acc := c.acc

	switch {
	case acc.DailyLossAlertPct > 0 && acc.TodayPnlPct <= -acc.DailyLossAlertPct:
		if !prevArmed {
			c.raise(
				models.AlertTypePnL,
				fmt.Sprintf("Daily PnL dropped %.1f%% (alert at -%g%%)", acc.TodayPnlPct, acc.DailyLossAlertPct),
				models.SeverityWarning,
			)
		}
		acc.PnLAlertTriggered = true
	case acc.DailyProfitAlertPct > 0 && acc.TodayPnlPct >= acc.DailyProfitAlertPct:
		if !prevArmed {
			c.raise(
				models.AlertTypePnL,
				fmt.Sprintf("Daily PnL reached +%.1f%% (alert at +%g%%)", acc.TodayPnlPct, acc.DailyProfitAlertPct),
				models.SeverityInfo,
			)
		}
		acc.PnLAlertTriggered = true
	default:
		acc.PnLAlertTriggered = false
		acc.AlertSent = false
	}
}
