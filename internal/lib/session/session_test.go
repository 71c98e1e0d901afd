package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gnat1923/ecommerce/internal/lib/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := session.FromContext(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(id))
	})
}

func TestMiddleware_GeneratesSession(t *testing.T) {
	handler := session.Middleware(time.Hour)(echoSession())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/cart", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	id := rr.Body.String()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, rr.Header().Get(session.HeaderName))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
}

func TestMiddleware_ReusesHeaderAndCookie(t *testing.T) {
	handler := session.Middleware(time.Hour)(echoSession())
	id := uuid.NewString()

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set(session.HeaderName, id)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, id, rr.Body.String())
	assert.Empty(t, rr.Result().Cookies())

	req = httptest.NewRequest("GET", "/cart", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, id, rr.Body.String())
}

func TestMiddleware_RejectsForeignID(t *testing.T) {
	handler := session.Middleware(time.Hour)(echoSession())

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set(session.HeaderName, "*")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.NotEqual(t, "*", rr.Body.String())
	_, err := uuid.Parse(rr.Body.String())
	assert.NoError(t, err)
}
