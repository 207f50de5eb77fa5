package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/rs/xid"

	"github.com/sakif/idea-board/internal/apperror"
	"github.com/sakif/idea-board/internal/auth"
	"github.com/sakif/idea-board/internal/service"
)

const stateCookieName = "oauth_state"

// OAuthProvider is the part of auth.GoogleProvider the handler needs. Tests
// substitute a fake so the callback can run without Google.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GoogleUser, error)
}

// AuthHandler manages the Google OAuth login flow and the session cookie.
//
// HANDLER RESPONSIBILITIES:
//   - HandleGoogleLogin    → redirect the browser to Google's consent page
//   - HandleGoogleCallback → receive the code, resolve the user, issue JWT
//   - HandleLogout         → clear the JWT cookie
//   - HandleCurrentUser    → return the logged-in user, or null
type AuthHandler struct {
	provider      OAuthProvider
	auth          *service.AuthService
	sessionMaxAge int
	secureCookies bool
	loginRedirect string
	logger        *slog.Logger
}

// AuthHandlerConfig holds the cookie and redirect settings.
type AuthHandlerConfig struct {
	SessionMaxAge int    // seconds; matches the token TTL
	SecureCookies bool   // set Secure on cookies (HTTPS deployments)
	LoginRedirect string // where the browser lands after login
}

func NewAuthHandler(provider OAuthProvider, authService *service.AuthService, cfg AuthHandlerConfig, logger *slog.Logger) *AuthHandler {
	redirect := cfg.LoginRedirect
	if redirect == "" {
		redirect = "/"
	}
	return &AuthHandler{
		provider:      provider,
		auth:          authService,
		sessionMaxAge: cfg.SessionMaxAge,
		secureCookies: cfg.SecureCookies,
		loginRedirect: redirect,
		logger:        logger,
	}
}

// HandleGoogleLogin redirects the user to Google's authorization page.
//
// HTTP: GET /auth/google
//
// CSRF PROTECTION VIA STATE:
// A random state value goes into a short-lived cookie and into the
// authorization URL. The callback only proceeds when both match, which
// proves the flow was started by this server for this browser.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.googleConfigured(w) {
		return
	}

	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback completes the OAuth login flow.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for the Google profile
//  3. Create or refresh the local user
//  4. Issue a JWT in an HttpOnly cookie
//  5. Redirect to the app
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.googleConfigured(w) {
		return
	}

	// --- Step 1: Validate CSRF state ---
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, withQuery(h.loginRedirect, "auth", "denied"), http.StatusSeeOther)
		return
	}

	// --- Step 2: Exchange code for the Google profile ---
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	gUser, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: Google exchange failed", slog.String("error", err.Error()))
		reportError(r, err)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	// --- Steps 3 and 4: Upsert user, issue token ---
	result, err := h.auth.LoginOrRegisterGoogle(r.Context(), gUser)
	if errors.Is(err, apperror.ErrConflict) {
		h.logger.Warn("auth callback: email already linked",
			slog.String("googleID", gUser.ID),
			slog.String("error", err.Error()),
		)
		http.Redirect(w, r, withQuery(h.loginRedirect, "auth", "conflict"), http.StatusSeeOther)
		return
	}
	if err != nil {
		h.logger.Error("auth callback: login failed", slog.String("error", err.Error()))
		reportError(r, err)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   h.sessionMaxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	// --- Step 5: Redirect to the app ---
	http.Redirect(w, r, h.loginRedirect, http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
//
// HTTP: GET  /auth/logout → redirect to "/"
// HTTP: POST /auth/logout → {"message": "logged out"}
//
// Sessions are stateless JWTs, so logging out only removes the cookie. The
// token itself stays valid until it expires.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	if r.Method == http.MethodGet {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleCurrentUser returns the logged-in user, or JSON null for anonymous
// callers. It runs behind auth.OptionalAuth, never RequireAuth, so the
// frontend can call it on load to decide what to render.
//
// HTTP: GET /api/user
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, json.RawMessage("null"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// googleConfigured answers 503 when the server runs without Google
// credentials. The API itself still works for existing sessions.
func (h *AuthHandler) googleConfigured(w http.ResponseWriter) bool {
	if h.provider != nil {
		return true
	}
	writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
		Error:   "unavailable",
		Message: "Google login is not configured",
	})
	return false
}

func withQuery(target, key, value string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
