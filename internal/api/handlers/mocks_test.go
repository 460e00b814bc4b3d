package handlers

import (
	"sync"

	"mtmonitor/internal/models"
)

// ============ Mock Monitor Service ============

// MockMonitorService мок для service.MonitorService
type MockMonitorService struct {
	mu        sync.Mutex
	accounts  map[string]*models.AccountData
	processed []*models.Snapshot
	err       error
}

func NewMockMonitorService() *MockMonitorService {
	return &MockMonitorService{
		accounts: make(map[string]*models.AccountData),
	}
}

func (m *MockMonitorService) ProcessSnapshot(snap *models.Snapshot) (*models.AccountData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	m.processed = append(m.processed, snap)
	acc := &models.AccountData{
		AccountName: snap.AccountName,
		Timestamp:   snap.Timestamp,
		Balance:     snap.Balance,
		Status:      models.StatusOnline,
	}
	m.accounts[snap.AccountName] = acc
	return acc, nil
}

func (m *MockMonitorService) CurrentState() map[string]*models.AccountData {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]*models.AccountData, len(m.accounts))
	for name, acc := range m.accounts {
		out[name] = acc
	}
	return out
}

func (m *MockMonitorService) AccountCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

func (m *MockMonitorService) lastProcessed() *models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.processed) == 0 {
		return nil
	}
	return m.processed[len(m.processed)-1]
}

// ============ Mock History Service ============

// MockHistoryService мок для service.HistoryServiceInterface
type MockHistoryService struct {
	samples map[string][]*models.HistorySample
	err     error
}

func NewMockHistoryService() *MockHistoryService {
	return &MockHistoryService{
		samples: make(map[string][]*models.HistorySample),
	}
}

func (m *MockHistoryService) GetSince(account string, since int64) ([]*models.HistorySample, error) {
	if m.err != nil {
		return nil, m.err
	}

	var out []*models.HistorySample
	for _, s := range m.samples[account] {
		if s.Timestamp > since {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockHistoryService) AddSample(account string, ts int64, balance float64) {
	m.samples[account] = append(m.samples[account], &models.HistorySample{
		AccountName: account,
		Timestamp:   ts,
		Balance:     balance,
	})
}

// ============ Mock Notification Service ============

// MockNotificationService мок для service.NotificationServiceInterface
type MockNotificationService struct {
	notifications []*models.Notification
	err           error
	gotLimit      int
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) GetRecent(limit int) ([]*models.Notification, error) {
	m.gotLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.notifications, nil
}

func (m *MockNotificationService) AddNotification(account, alertType, message string) {
	m.notifications = append(m.notifications, &models.Notification{
		ID:          len(m.notifications) + 1,
		AccountName: account,
		AlertType:   alertType,
		Message:     message,
	})
}
