package middleware

import (
	"context"
	"net/http"

	"github.com/astroindira/booking-service/internal/api/handlers"
)

type contextKey string

const requesterEmailKey contextKey = "requesterEmail"

// headerRequesterEmail заголовок с email клиента, выполняющего запрос
const headerRequesterEmail = "X-User-Email"

// Auth проверяет наличие заголовка X-User-Email и кладет email в контекст.
// Используется на маршрутах, где сервис проверяет владельца бронирования.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := r.Header.Get(headerRequesterEmail)
		if email == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-Email")
			return
		}

		ctx := context.WithValue(r.Context(), requesterEmailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequesterEmail извлекает email клиента из контекста
func GetRequesterEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(requesterEmailKey).(string)
	return email, ok
}
