package middleware

import (
	"net/http"
	"time"

	"mtmonitor/pkg/utils"
)

// Logging - middleware для логирования HTTP запросов
//
// Назначение:
// Логирует все входящие HTTP запросы для мониторинга и отладки.
//
// Формат лога (structured):
// method, path, status, duration, client_ip, размер ответа в байтах.
// POST /api/data идёт каждые несколько секунд с каждого терминала,
// поэтому успешный ingest логируется на уровне debug.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap ResponseWriter чтобы захватить status code
		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		log := utils.L().Sugar()
		fields := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", duration,
			"client_ip", r.RemoteAddr,
			"bytes", wrapped.written,
		}

		switch {
		case wrapped.statusCode >= 500:
			log.Errorw("http request", fields...)
		case wrapped.statusCode >= 400:
			log.Warnw("http request", fields...)
		case r.URL.Path == "/api/data" && r.Method == http.MethodPost:
			log.Debugw("http request", fields...)
		default:
			log.Infow("http request", fields...)
		}
	})
}
