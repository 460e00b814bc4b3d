package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"mtmonitor/internal/models"
	"mtmonitor/internal/service"
)

// Максимальный размер тела снапшота. Реальный снапшот - единицы
// килобайт, лимит отсекает мусор до парсинга.
const maxSnapshotBody = 1 << 20

// IngestHandler принимает снапшоты от терминалов MT4/5
//
// Endpoints:
// - POST /api/data - один снапшот состояния аккаунта в JSON
//
// Назначение:
// Единственный HTTP вход данных. Терминалы шлют снапшоты каждые
// несколько секунд; handler чистит сырое тело, декодирует JSON и
// передаёт снапшот в ядро. Доменную логику (дефолты, классификация,
// дедупликация алертов) применяет ядро, не транспорт.
//
// Особенности ввода:
// - Экспортёры MT4 дописывают NUL-байты в конец строки - вырезаем
//   по всему телу до парсинга
// - timestamp может отсутствовать - подставляем текущее время сервера
type IngestHandler struct {
	monitor service.MonitorService
}

// NewIngestHandler создает новый IngestHandler с внедрением зависимости
func NewIngestHandler(monitor service.MonitorService) *IngestHandler {
	return &IngestHandler{monitor: monitor}
}

// PostData принимает один снапшот аккаунта
//
// POST /api/data
//
// HTTP коды:
// - 200 OK: снапшот принят, тело {"status": "ok"}
// - 400 Bad Request: нечитаемый JSON или отсутствует account_name
// - 429 Too Many Requests: сработал rate limit (middleware)
func (h *IngestHandler) PostData(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBody))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	// NUL-байты от экспортёров MT4
	body = bytes.ReplaceAll(body, []byte{0}, nil)

	var snap models.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	// Терминал может не прислать timestamp - берём время сервера
	if snap.Timestamp <= 0 {
		snap.Timestamp = time.Now().Unix()
	}

	if _, err := h.monitor.ProcessSnapshot(&snap); err != nil {
		if errors.Is(err, models.ErrMissingAccountName) || errors.Is(err, models.ErrMissingTimestamp) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to process snapshot")
		return
	}

	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
