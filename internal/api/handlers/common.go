package handlers

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// Единый JSON-кодек для всех handlers; тот же конфиг, что и в
// websocket hub, чтобы wire-формат совпадал на всех выходах
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse стандартный формат ответа об ошибке для всех API endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StatusResponse стандартный формат ответа ingest endpoint'а
type StatusResponse struct {
	Status string `json:"status"`
}

// respondWithJSON отправляет JSON ответ
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError отправляет JSON ошибку
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}
