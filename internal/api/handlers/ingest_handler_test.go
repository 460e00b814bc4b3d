package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// ============ IngestHandler Tests ============

func TestIngestHandler_PostData(t *testing.T) {
	t.Run("accepts valid snapshot", func(t *testing.T) {
		mockSvc := NewMockMonitorService()
		handler := NewIngestHandler(mockSvc)

		body := `{"account_name": "acc-1", "timestamp": 1750000000, "balance": 10000}`
		req := httptest.NewRequest(http.MethodPost, "/api/data", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.PostData(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var response StatusResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Status != "ok" {
			t.Errorf("expected status ok, got %q", response.Status)
		}

		snap := mockSvc.lastProcessed()
		if snap == nil || snap.AccountName != "acc-1" {
			t.Errorf("expected snapshot forwarded to monitor, got %+v", snap)
		}
	})

	t.Run("strips NUL bytes from body", func(t *testing.T) {
		mockSvc := NewMockMonitorService()
		handler := NewIngestHandler(mockSvc)

		body := []byte(`{"account_name": "acc-1", "timestamp": 1750000000}`)
		body = append(body, 0, 0, 0)
		req := httptest.NewRequest(http.MethodPost, "/api/data", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.PostData(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}
	})

	t.Run("synthesizes missing timestamp", func(t *testing.T) {
		mockSvc := NewMockMonitorService()
		handler := NewIngestHandler(mockSvc)

		before := time.Now().Unix()
		body := `{"account_name": "acc-1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/data", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.PostData(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		snap := mockSvc.lastProcessed()
		if snap == nil {
			t.Fatal("expected snapshot processed")
		}
		if snap.Timestamp < before || snap.Timestamp > time.Now().Unix() {
			t.Errorf("expected synthesized timestamp near now, got %d", snap.Timestamp)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		handler := NewIngestHandler(NewMockMonitorService())

		req := httptest.NewRequest(http.MethodPost, "/api/data", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		handler.PostData(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("rejects missing account name", func(t *testing.T) {
		mockSvc := NewMockMonitorService()
		handler := NewIngestHandler(mockSvc)

		body := `{"timestamp": 1750000000, "balance": 10000}`
		req := httptest.NewRequest(http.MethodPost, "/api/data", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.PostData(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
		if mockSvc.AccountCount() != 0 {
			t.Error("expected no account created from invalid snapshot")
		}
	})
}
