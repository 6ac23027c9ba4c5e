package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fraudguard/console/internal/platform/session"
	"github.com/fraudguard/console/internal/transport/httpapi/middleware"
	"github.com/fraudguard/console/pkg/logger"
)

// LoginView is the data of the sign-in page.
type LoginView struct {
	Next    string
	Analyst string
}

// AuthHandler handles analyst sign-in
type AuthHandler struct {
	pages
	sessions *session.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *session.Service, renderer Renderer, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		pages:    pages{renderer: renderer, authEnabled: sessions.Enabled(), logger: log},
		sessions: sessions,
	}
}

// GetLogin handles GET /login
func (h *AuthHandler) GetLogin(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Enabled() {
		seeOther(w, r, "/")
		return
	}
	v := LoginView{Next: safeNext(r.URL.Query().Get("next"))}
	h.render(w, r, http.StatusOK, "login", h.loginPage(r, v))
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Solicitud inválida", "No se pudo leer el formulario.")
		return
	}
	v := LoginView{
		Next:    safeNext(r.PostForm.Get("next")),
		Analyst: strings.TrimSpace(r.PostForm.Get("analyst")),
	}

	token, sess, err := h.sessions.Login(v.Analyst, r.PostForm.Get("code"))
	if err != nil {
		middleware.CaptureError(r.Context(), err)
		page := h.loginPage(r, v)
		switch {
		case errors.Is(err, session.ErrMissingAnalyst):
			page.Error = "Ingresa tu nombre de analista."
		case errors.Is(err, session.ErrInvalidCredentials):
			page.Error = "Código de acceso incorrecto."
		default:
			page.Error = "No se pudo iniciar sesión."
		}
		h.render(w, r, http.StatusUnauthorized, "login", page)
		return
	}

	middleware.SetSessionCookie(w, r, token, h.sessions)
	h.logger.WithContext(r.Context()).Info("analyst signed in", "analyst", sess.Analyst, "session_id", sess.ID)
	seeOther(w, r, v.Next)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	target := "/login"
	if !h.sessions.Enabled() {
		target = "/"
	}
	seeOther(w, r, target)
}

func (h *AuthHandler) loginPage(r *http.Request, v LoginView) Page {
	page := h.page(r, "Iniciar sesión", "", v)
	page.Analyst = v.Analyst
	return page
}

// safeNext keeps post-login redirects on this host.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
