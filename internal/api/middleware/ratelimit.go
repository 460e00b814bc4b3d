package middleware

import (
	"net/http"

	"mtmonitor/pkg/ratelimit"
)

// RateLimit - middleware для ограничения частоты запросов
//
// Назначение:
// Защищает ingest endpoint от зацикленного терминала или flood'а.
// Лимит общий на всех отправителей: сервер обслуживает известный
// парк терминалов, per-IP учёт не нужен.
//
// При превышении лимита возвращает 429 Too Many Requests.
func RateLimit(limiter *ratelimit.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
