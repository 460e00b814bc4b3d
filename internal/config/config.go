package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Security SecurityConfig
	Telegram TelegramConfig
	Monitor  MonitorConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// SecurityConfig - настройки безопасности
//
// AdminPassHash (bcrypt) имеет приоритет над AdminPass: если задан хэш,
// plaintext пароль игнорируется.
type SecurityConfig struct {
	EnableAuth    bool
	AdminUser     string
	AdminPass     string
	AdminPassHash string
}

// TelegramConfig - настройки доставки алертов
type TelegramConfig struct {
	Enabled bool
	Token   string
	ChatID  string
}

// MonitorConfig - параметры движка мониторинга
type MonitorConfig struct {
	// Размер очереди уведомлений; при переполнении алерты отбрасываются
	QueueSize int

	// Rate limit для POST /api/data (запросов в секунду / burst)
	IngestRate  float64
	IngestBurst int

	// Адрес TCP ingest listener'а; пустая строка выключает listener
	TCPAddr string

	// Sweeper
	SweepInterval  time.Duration
	OfflineTimeout time.Duration
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "mtmonitor"),
			User:     getEnv("DB_USER", "monitor"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Security: SecurityConfig{
			EnableAuth:    getEnvAsBool("ENABLE_AUTH", false),
			AdminUser:     getEnv("ADMIN_USER", "admin"),
			AdminPass:     getEnv("ADMIN_PASS", ""),
			AdminPassHash: getEnv("ADMIN_PASS_HASH", ""),
		},
		Telegram: TelegramConfig{
			Enabled: getEnvAsBool("TELEGRAM_ENABLED", false),
			Token:   getEnv("TELEGRAM_TOKEN", ""),
			ChatID:  getEnv("TELEGRAM_CHAT_ID", ""),
		},
		Monitor: MonitorConfig{
			QueueSize:      getEnvAsInt("ALERT_QUEUE_SIZE", 100),
			IngestRate:     getEnvAsFloat("INGEST_RATE", 50),
			IngestBurst:    getEnvAsInt("INGEST_BURST", 100),
			TCPAddr:        getEnv("TCP_INGEST_ADDR", ""),
			SweepInterval:  getEnvAsDuration("SWEEP_INTERVAL", 30*time.Second),
			OfflineTimeout: getEnvAsDuration("OFFLINE_TIMEOUT", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Валидация параметров безопасности
	if err := cfg.validateSecurity(); err != nil {
		return nil, err
	}

	// Валидация числовых диапазонов
	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateSecurity проверяет параметры безопасности
func (c *Config) validateSecurity() error {
	if !c.Security.EnableAuth {
		return nil
	}

	// При включенной авторизации нужен хотя бы один способ проверки пароля
	if c.Security.AdminPass == "" && c.Security.AdminPassHash == "" {
		return fmt.Errorf("ENABLE_AUTH requires ADMIN_PASS or ADMIN_PASS_HASH")
	}

	if c.Security.AdminUser == "" {
		return fmt.Errorf("ADMIN_USER cannot be empty when auth is enabled")
	}

	return nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Database.Port)
	}

	if c.Monitor.QueueSize < 1 {
		return fmt.Errorf("ALERT_QUEUE_SIZE must be positive, got %d", c.Monitor.QueueSize)
	}

	if c.Monitor.IngestRate <= 0 {
		return fmt.Errorf("INGEST_RATE must be positive, got %v", c.Monitor.IngestRate)
	}

	if c.Monitor.IngestBurst < 1 {
		return fmt.Errorf("INGEST_BURST must be positive, got %d", c.Monitor.IngestBurst)
	}

	if c.Monitor.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %v", c.Monitor.SweepInterval)
	}

	if c.Monitor.OfflineTimeout <= 0 {
		return fmt.Errorf("OFFLINE_TIMEOUT must be positive, got %v", c.Monitor.OfflineTimeout)
	}

	if c.Telegram.Enabled && (c.Telegram.Token == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("TELEGRAM_ENABLED requires TELEGRAM_TOKEN and TELEGRAM_CHAT_ID")
	}

	return nil
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (d DatabaseConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
