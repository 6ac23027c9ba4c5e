package middleware

import (
	"net/http"
	"net/url"

	"github.com/fraudguard/console/internal/platform/session"
	"github.com/fraudguard/console/pkg/logger"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "fg_session"

// SetSessionCookie writes token as the session cookie.
func SetSessionCookie(w http.ResponseWriter, r *http.Request, token string, svc *session.Service) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(svc.TTL().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session resolves the analyst session from the cookie. When sign-in is
// enabled a missing or invalid cookie redirects to /login; otherwise an
// anonymous session is issued on the spot.
func Session(svc *session.Service, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := sessionFromCookie(r, svc)
			if !ok {
				if svc.Enabled() {
					redirectToLogin(w, r)
					return
				}

				token, anon, err := svc.Anonymous()
				if err != nil {
					log.WithContext(r.Context()).WithError(err).Error("failed to issue anonymous session")
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				SetSessionCookie(w, r, token, svc)
				sess = anon
			}

			setAnalyst(r.Context(), sess.Analyst)
			ctx := session.WithSession(r.Context(), sess)
			ctx = logger.ContextWithAnalyst(ctx, sess.Analyst)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromCookie(r *http.Request, svc *session.Service) (session.Session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return session.Session{}, false
	}
	sess, err := svc.Parse(cookie.Value)
	if err != nil {
		return session.Session{}, false
	}
	return sess, true
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login"
	if r.Method == http.MethodGet && r.URL.Path != "/" {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
