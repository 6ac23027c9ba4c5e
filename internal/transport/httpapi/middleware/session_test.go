package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/console/internal/platform/session"
	"github.com/fraudguard/console/internal/transport/httpapi/middleware"
	"github.com/fraudguard/console/pkg/logger"
)

func analystEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(session.AnalystFromContext(r.Context())))
	})
}

func TestSession_AnonymousWhenSignInDisabled(t *testing.T) {
	svc, err := session.NewService("secret", "")
	require.NoError(t, err)

	h := middleware.Session(svc, logger.Discard())(analystEcho())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hitl", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.DefaultAnalyst, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSession_RedirectsToLoginWhenSignInEnabled(t *testing.T) {
	svc, err := session.NewService("secret", "1234")
	require.NoError(t, err)

	h := middleware.Session(svc, logger.Discard())(analystEcho())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hitl?case=C1", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fhitl%3Fcase%3DC1", rec.Header().Get("Location"))
}

func TestSession_ValidCookie(t *testing.T) {
	svc, err := session.NewService("secret", "1234")
	require.NoError(t, err)
	token, _, err := svc.Login("maria", "1234")
	require.NoError(t, err)

	h := middleware.Session(svc, logger.Discard())(analystEcho())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "maria", rec.Body.String())
}

func TestSession_TamperedCookie(t *testing.T) {
	svc, err := session.NewService("secret", "1234")
	require.NoError(t, err)
	other, err := session.NewService("other-secret", "1234")
	require.NoError(t, err)
	token, _, err := other.Login("maria", "1234")
	require.NoError(t, err)

	h := middleware.Session(svc, logger.Discard())(analystEcho())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRateLimit_RejectsBurst(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 1)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	first := httptest.NewRecorder()
	h.ServeHTTP(first, req)
	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
