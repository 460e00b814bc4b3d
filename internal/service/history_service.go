package service

import (
	"errors"

	"go.uber.org/zap"

	"mtmonitor/internal/models"
	"mtmonitor/internal/monitor"
	"mtmonitor/internal/repository"
)

// DownsampleWindow - минимальный зазор в секундах между соседними
// точками истории одного аккаунта. Фиксированный: ограничивает рост
// хранилища, сохраняя разрешение тренда.
const DownsampleWindow = 300

// HistoryService - History Recorder: ведёт прореженный временной ряд
// по каждому аккаунту поверх HistoryRepository.
//
// Сравнение идёт с timestamp последней СОХРАНЁННОЙ точки, а не с
// wall-clock: replay и back-dated снапшоты прореживаются консистентно.
type HistoryService struct {
	repo *repository.HistoryRepository
	log  *zap.SugaredLogger
}

// NewHistoryService создает новый экземпляр HistoryService
func NewHistoryService(repo *repository.HistoryRepository, log *zap.SugaredLogger) *HistoryService {
	return &HistoryService{repo: repo, log: log}
}

// Record условно сохраняет точку истории для записи аккаунта.
//
// Персистентность best-effort относительно live-состояния: любая
// ошибка логируется и не влияет на результат обработки снапшота,
// поэтому метод ничего не возвращает.
func (s *HistoryService) Record(acc *models.AccountData) {
	last, err := s.repo.LatestTimestamp(acc.AccountName)
	if err != nil && !errors.Is(err, repository.ErrNoHistory) {
		monitor.HistorySamples.WithLabelValues("failed").Inc()
		s.log.Errorw("failed to read latest history timestamp",
			"account", acc.AccountName, "error", err)
		return
	}

	if err == nil && acc.Timestamp-last < DownsampleWindow {
		monitor.HistorySamples.WithLabelValues("skipped").Inc()
		return
	}

	sample := &models.HistorySample{
		AccountName:       acc.AccountName,
		Timestamp:         acc.Timestamp,
		Balance:           acc.Balance,
		Equity:            acc.Equity,
		Profit:            acc.Profit,
		TodayPnl:          acc.TodayPnl,
		TotalPnl:          acc.TotalPnl,
		BestDayRatio:      acc.BestDayRatio,
		ProfitProgressPct: acc.ProfitProgressPct,
	}

	if err := s.repo.Insert(sample); err != nil {
		monitor.HistorySamples.WithLabelValues("failed").Inc()
		s.log.Errorw("failed to insert history sample",
			"account", acc.AccountName, "error", err)
		return
	}

	monitor.HistorySamples.WithLabelValues("written").Inc()
}

// GetSince возвращает точки аккаунта начиная с указанного timestamp
func (s *HistoryService) GetSince(account string, since int64) ([]*models.HistorySample, error) {
	return s.repo.GetSince(account, since)
}
