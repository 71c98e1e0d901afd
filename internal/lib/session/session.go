// Package session выдаёт каждому клиенту идентификатор сессии, к которому привязана корзина.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	sessionIDKey contextKey = "sessionID"

	HeaderName = "X-Session-ID"
	CookieName = "session_id"
)

// Middleware берёт id сессии из заголовка X-Session-ID или cookie session_id.
// Если клиент пришёл без него, генерирует новый и возвращает его в cookie и заголовке.
func Middleware(cookieTTL time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := fromRequest(r)
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(cookieTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(HeaderName, id)

			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

func fromRequest(r *http.Request) string {
	if id := r.Header.Get(HeaderName); isValid(id) {
		return id
	}
	if c, err := r.Cookie(CookieName); err == nil && isValid(c.Value) {
		return c.Value
	}
	return ""
}

// принимаем только uuid, чтобы клиент не мог подставить произвольный ключ хранилища
func isValid(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// FromContext извлекает id сессии из контекста.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}
