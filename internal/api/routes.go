package api

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mtmonitor/internal/api/handlers"
	"mtmonitor/internal/api/middleware"
	"mtmonitor/internal/config"
	"mtmonitor/internal/service"
	"mtmonitor/internal/websocket"
	"mtmonitor/pkg/ratelimit"
)

// Встроенный дашборд; сервер самодостаточен, отдельный frontend
// деплоить не нужно
//
//go:embed web/index.html
var dashboardHTML []byte

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	Monitor       service.MonitorService
	History       service.HistoryServiceInterface
	Notifications service.NotificationServiceInterface
	Hub           *websocket.Hub
	Security      config.SecurityConfig
	IngestLimiter *ratelimit.RateLimiter
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Назначение:
// Центральное место для определения всех API endpoints.
// Регистрирует handlers для каждого маршрута.
// Применяет middleware к группам маршрутов.
//
// Структура маршрутов:
//
// /api/data            POST - ingest снапшотов (rate limit, без auth)
// /api/v1/             (basic auth при ENABLE_AUTH)
//
//	├── /accounts                 GET - состояние всех аккаунтов
//	├── /accounts/{name}/history  GET - история аккаунта
//	└── /notifications            GET - журнал уведомлений
//
// /ws/stream           WebSocket для real-time обновлений
// /health              GET - health check
// /metrics             GET - Prometheus метрики
// /                    GET - встроенный дашборд
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
// 4. RateLimit (только ingest)
// 5. BasicAuth (только read-API и дашборд)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)

	// Создание handlers с внедрением зависимостей
	var ingestHandler *handlers.IngestHandler
	if deps != nil && deps.Monitor != nil {
		ingestHandler = handlers.NewIngestHandler(deps.Monitor)
	}

	var accountHandler *handlers.AccountHandler
	if deps != nil && deps.Monitor != nil && deps.History != nil {
		accountHandler = handlers.NewAccountHandler(deps.Monitor, deps.History)
	}

	var notificationHandler *handlers.NotificationHandler
	if deps != nil && deps.Notifications != nil {
		notificationHandler = handlers.NewNotificationHandler(deps.Notifications)
	}

	// Ingest route: без auth (терминалы не умеют логин), с rate limit
	if ingestHandler != nil {
		ingest := http.Handler(http.HandlerFunc(ingestHandler.PostData))
		if deps.IngestLimiter != nil {
			ingest = middleware.RateLimit(deps.IngestLimiter)(ingest)
		}
		router.Handle("/api/data", ingest).Methods("POST")
	}

	// API v1 routes (read-only, под basic auth)
	api := router.PathPrefix("/api/v1").Subrouter()
	if deps != nil {
		api.Use(middleware.BasicAuth(deps.Security))
	}

	if accountHandler != nil {
		api.HandleFunc("/accounts", accountHandler.GetAccounts).Methods("GET")
		api.HandleFunc("/accounts/{name}/history", accountHandler.GetHistory).Methods("GET")
	}

	if notificationHandler != nil {
		api.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	}

	// WebSocket route
	if deps != nil && deps.Hub != nil {
		hub := deps.Hub
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(hub, w, r)
		})
	}

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		accounts := 0
		if deps != nil && deps.Monitor != nil {
			accounts = deps.Monitor.AccountCount()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","accounts":%d}`, accounts)
	}).Methods("GET")

	// Prometheus метрики
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Встроенный дашборд
	dashboard := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(dashboardHTML)
	}))
	if deps != nil {
		dashboard = middleware.BasicAuth(deps.Security)(dashboard)
	}
	router.Handle("/", dashboard).Methods("GET")

	return router
}
