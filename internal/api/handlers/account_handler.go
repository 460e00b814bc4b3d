package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"mtmonitor/internal/models"
	"mtmonitor/internal/service"
)

// AccountHandler отдаёт live-состояние аккаунтов и историю
//
// Endpoints:
// - GET /api/v1/accounts - полное текущее состояние всех аккаунтов
// - GET /api/v1/accounts/{name}/history?hours=24 - точки истории
//
// Назначение:
// Read-only API для дашборда и внешних интеграций. Live-состояние
// отдаётся из памяти (без похода в БД), история - из Postgres.
type AccountHandler struct {
	monitor service.MonitorService
	history service.HistoryServiceInterface
}

// NewAccountHandler создает новый AccountHandler с внедрением зависимостей
func NewAccountHandler(monitor service.MonitorService, history service.HistoryServiceInterface) *AccountHandler {
	return &AccountHandler{
		monitor: monitor,
		history: history,
	}
}

// GetAccountsResponse представляет ответ со списком аккаунтов
type GetAccountsResponse struct {
	Accounts map[string]*models.AccountData `json:"accounts"`
	Total    int                            `json:"total"`
}

// GetAccounts возвращает текущее состояние всех аккаунтов
//
// GET /api/v1/accounts
//
// HTTP коды:
// - 200 OK: успешно, map account_name -> состояние
func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	state := h.monitor.CurrentState()

	respondWithJSON(w, http.StatusOK, GetAccountsResponse{
		Accounts: state,
		Total:    len(state),
	})
}

// GetHistoryResponse представляет ответ с историей аккаунта
type GetHistoryResponse struct {
	Account string                  `json:"account"`
	Samples []*models.HistorySample `json:"samples"`
	Total   int                     `json:"total"`
}

// GetHistory возвращает точки истории аккаунта за окно времени
//
// GET /api/v1/accounts/{name}/history
//
// Query параметры:
// - hours (int): глубина окна в часах (по умолчанию 24, максимум 720)
//
// HTTP коды:
// - 200 OK: успешно, точки отсортированы по времени (старые первыми)
// - 500 Internal Server Error: ошибка БД
func (h *AccountHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	hours := 24
	if param := r.URL.Query().Get("hours"); param != "" {
		if parsed, err := strconv.Atoi(param); err == nil && parsed > 0 {
			hours = parsed
		}
	}
	if hours > 720 {
		hours = 720
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour).Unix()

	samples, err := h.history.GetSince(name, since)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get history: "+err.Error())
		return
	}

	// Пустые массивы возвращаются как [], а не null
	if samples == nil {
		samples = []*models.HistorySample{}
	}

	respondWithJSON(w, http.StatusOK, GetHistoryResponse{
		Account: name,
		Samples: samples,
		Total:   len(samples),
	})
}
