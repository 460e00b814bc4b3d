package service

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"

	"mtmonitor/internal/models"
	"mtmonitor/internal/repository"
)

func newHistoryServiceWithMock(t *testing.T) (*HistoryService, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}

	svc := NewHistoryService(repository.NewHistoryRepository(db), zap.NewNop().Sugar())
	return svc, mock, func() { db.Close() }
}

func historyAccount(name string, ts int64) *models.AccountData {
	return &models.AccountData{
		AccountName: name,
		Timestamp:   ts,
		Balance:     10000,
		Equity:      9980,
	}
}

func expectLatestTimestamp(mock sqlmock.Sqlmock, account string, ts int64) {
	mock.ExpectQuery(`SELECT timestamp FROM history`).
		WithArgs(account).
		WillReturnRows(sqlmock.NewRows([]string{"timestamp"}).AddRow(ts))
}

func TestHistoryService_RecordFirstPoint(t *testing.T) {
	svc, mock, cleanup := newHistoryServiceWithMock(t)
	defer cleanup()

	// Истории ещё нет - точка пишется безусловно
	mock.ExpectQuery(`SELECT timestamp FROM history`).
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows([]string{"timestamp"}))
	mock.ExpectExec(`INSERT INTO history`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	svc.Record(historyAccount("acc-1", 1750000000))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Даунсемплинг: зазор считается от последней СОХРАНЁННОЙ точки
func TestHistoryService_RecordDownsampling(t *testing.T) {
	tests := []struct {
		name       string
		lastStored int64
		incoming   int64
		wantInsert bool
	}{
		{"gap below window is skipped", 1750000000, 1750000299, false},
		{"gap equal to window is written", 1750000000, 1750000300, true},
		{"gap above window is written", 1750000000, 1750000500, true},
		{"back-dated snapshot is skipped", 1750000000, 1749999990, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock, cleanup := newHistoryServiceWithMock(t)
			defer cleanup()

			expectLatestTimestamp(mock, "acc-1", tt.lastStored)
			if tt.wantInsert {
				mock.ExpectExec(`INSERT INTO history`).
					WillReturnResult(sqlmock.NewResult(1, 1))
			}

			svc.Record(historyAccount("acc-1", tt.incoming))

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

// Ошибки персистентности best-effort: Record не паникует и не пишет
func TestHistoryService_RecordSurvivesDBErrors(t *testing.T) {
	t.Run("latest timestamp query fails", func(t *testing.T) {
		svc, mock, cleanup := newHistoryServiceWithMock(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT timestamp FROM history`).
			WithArgs("acc-1").
			WillReturnError(errors.New("connection refused"))

		svc.Record(historyAccount("acc-1", 1750000000))

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("insert fails", func(t *testing.T) {
		svc, mock, cleanup := newHistoryServiceWithMock(t)
		defer cleanup()

		expectLatestTimestamp(mock, "acc-1", 1749000000)
		mock.ExpectExec(`INSERT INTO history`).
			WillReturnError(errors.New("disk full"))

		svc.Record(historyAccount("acc-1", 1750000000))

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestNotificationService_GetRecentClampsLimit(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		wantLimit int
	}{
		{"zero uses default", 0, 100},
		{"negative uses default", -5, 100},
		{"within range passes through", 50, 50},
		{"above maximum is clamped", 1000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer db.Close()

			mock.ExpectQuery(`SELECT id, account_name, alert_type`).
				WithArgs(tt.wantLimit).
				WillReturnRows(sqlmock.NewRows([]string{"id", "account_name", "alert_type", "message", "sent_at"}))

			svc := NewNotificationService(repository.NewNotificationRepository(db))
			if _, err := svc.GetRecent(tt.requested); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}
