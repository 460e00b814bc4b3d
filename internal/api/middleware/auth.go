package middleware

import (
	"crypto/subtle"
	"net/http"

	"mtmonitor/internal/config"
	"mtmonitor/pkg/crypto"
)

// BasicAuth - middleware для защиты read-API и дашборда
//
// Назначение:
// HTTP Basic Authentication для единственного оператора. Ingest
// endpoints (POST /api/data, TCP) под auth не попадают: терминалы
// не умеют интерактивный логин.
//
// Конфигурация (см. config.SecurityConfig):
// - ENABLE_AUTH: выключено по умолчанию (локальное развертывание)
// - ADMIN_USER / ADMIN_PASS: plaintext credentials
// - ADMIN_PASS_HASH: bcrypt хэш, имеет приоритет над ADMIN_PASS
//
// Безопасность:
// - Constant-time сравнение для предотвращения timing attacks
// - bcrypt сравнение само по себе constant-time
func BasicAuth(sec config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sec.EnableAuth {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="MT Monitor"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(sec.AdminUser)) == 1

			var passMatch bool
			if sec.AdminPassHash != "" {
				passMatch = crypto.CheckPassword(pass, sec.AdminPassHash) == nil
			} else {
				passMatch = subtle.ConstantTimeCompare([]byte(pass), []byte(sec.AdminPass)) == 1
			}

			if !userMatch || !passMatch {
				w.Header().Set("WWW-Authenticate", `Basic realm="MT Monitor"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
