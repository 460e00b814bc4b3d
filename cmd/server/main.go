package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mtmonitor/internal/api"
	"mtmonitor/internal/api/transport"
	"mtmonitor/internal/config"
	"mtmonitor/internal/monitor"
	"mtmonitor/internal/notifier"
	"mtmonitor/internal/repository"
	"mtmonitor/internal/service"
	"mtmonitor/internal/websocket"
	"mtmonitor/pkg/ratelimit"
	"mtmonitor/pkg/utils"

	_ "github.com/lib/pq"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger := utils.InitGlobalLogger(utils.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	defer logger.Sync()
	sugar := logger.Sugar()

	// Инициализация базы данных
	db, err := initDatabase(cfg)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err, "dsn", cfg.Database.DSNWithoutPassword())
	}
	defer db.Close()

	sugar.Infow("connected to database", "dsn", cfg.Database.DSNWithoutPassword())

	// Контекст жизни фоновых компонентов
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация репозиториев
	historyRepo := repository.NewHistoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Инициализация сервисов
	historyService := service.NewHistoryService(historyRepo, sugar.With("component", "history"))
	notificationService := service.NewNotificationService(notificationRepo)

	// Пайплайн уведомлений: telegram + журнал в БД
	telegram := notifier.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.Enabled)
	pipeline := monitor.NewPipeline(cfg.Monitor.QueueSize, telegram, notificationRepo, sugar.With("component", "pipeline"))
	go pipeline.Run(ctx)

	// WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Ядро мониторинга
	store := monitor.NewStore()
	engine := monitor.NewEngine(store, historyService, pipeline, hub, sugar.With("component", "engine"))
	hub.SetStateFunc(engine.CurrentState)

	// Sweeper живости
	sweeper := monitor.NewSweeper(store, hub, sugar.With("component", "sweeper"),
		cfg.Monitor.SweepInterval, cfg.Monitor.OfflineTimeout)
	go sweeper.Run(ctx)

	// TCP ingest (опционально)
	if cfg.Monitor.TCPAddr != "" {
		tcp := transport.NewTCPListener(cfg.Monitor.TCPAddr, engine, sugar.With("component", "tcp"))
		go func() {
			if err := tcp.Run(ctx); err != nil {
				sugar.Errorw("tcp ingest stopped", "error", err)
			}
		}()
	}

	// Настройка зависимостей для API
	deps := &api.Dependencies{
		Monitor:       engine,
		History:       historyService,
		Notifications: notificationService,
		Hub:           hub,
		Security:      cfg.Security,
		IngestLimiter: ratelimit.NewRateLimiter(cfg.Monitor.IngestRate, float64(cfg.Monitor.IngestBurst)),
	}

	// Настройка HTTP роутера
	router := api.SetupRoutes(deps)

	// HTTP сервер
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		sugar.Infow("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("shutting down server...")

	// Останавливаем фоновые компоненты (sweeper, pipeline, tcp)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Fatalw("server forced to shutdown", "error", err)
	}

	sugar.Info("server exited")
}

// initDatabase создает подключение к базе данных
func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
