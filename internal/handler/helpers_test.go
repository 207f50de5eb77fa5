package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/idea-board/internal/auth"
	"github.com/sakif/idea-board/internal/handler"
	"github.com/sakif/idea-board/internal/model"
	"github.com/sakif/idea-board/internal/repository/sqlite"
	"github.com/sakif/idea-board/internal/service"
)

// testAPI is the /api and /auth surface wired against a fresh in-memory
// database, the same way the server wires it.
type testAPI struct {
	router *chi.Mux
	db     *sqlite.DB
	tokens *auth.TokenService
}

func newTestAPI(t *testing.T, provider handler.OAuthProvider) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret-0123456789", time.Hour)
	require.NoError(t, err)

	ideaHandler := handler.NewIdeaHandler(
		service.NewIdeaService(db, logger),
		service.NewTaskService(db, logger),
		logger,
	)
	backupHandler := handler.NewBackupHandler(service.NewBackupService(db, logger), logger)
	authHandler := handler.NewAuthHandler(provider, service.NewAuthService(db, tokens, logger),
		handler.AuthHandlerConfig{SessionMaxAge: 3600, LoginRedirect: "/board"}, logger)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google", authHandler.HandleGoogleLogin)
		r.Get("/google/callback", authHandler.HandleGoogleCallback)
		r.Get("/logout", authHandler.HandleLogout)
		r.Post("/logout", authHandler.HandleLogout)
	})
	r.Route("/api", func(r chi.Router) {
		r.With(auth.OptionalAuth(tokens)).Get("/user", authHandler.HandleCurrentUser)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			ideaHandler.Routes(r)
			r.Get("/backup", backupHandler.HandleExport)
			r.Post("/restore", backupHandler.HandleRestore)
		})
	})

	return &testAPI{router: r, db: db, tokens: tokens}
}

// login creates a user and returns a session cookie for them.
func (a *testAPI) login(t *testing.T, googleID, email string) (*model.User, *http.Cookie) {
	t.Helper()
	user := &model.User{GoogleID: googleID, Email: email, DisplayName: email}
	require.NoError(t, a.db.UpsertGoogleUser(context.Background(), user))

	token, err := a.tokens.Generate(user.ID)
	require.NoError(t, err)
	return user, &http.Cookie{Name: auth.CookieName, Value: token}
}

// do sends a request with an optional JSON body. body may be a string (sent
// verbatim) or any value (JSON-encoded).
func (a *testAPI) do(t *testing.T, method, path string, cookie *http.Cookie, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), rr.Body.String())
	return v
}
