package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/withlumeo/lumeo/internal/auth"
	"github.com/withlumeo/lumeo/internal/handler"
	"github.com/withlumeo/lumeo/internal/repository/sqlite"
	"github.com/withlumeo/lumeo/internal/service"
)

// testEnv wires real services over a throwaway database — the handlers are
// thin enough that faking the service layer would mostly test the fakes.
type testEnv struct {
	auth       *handler.AuthHandler
	portfolio  *handler.PortfolioHandler
	site       *handler.SiteHandler
	tokens     *auth.TokenService
	authSvc    *service.AuthService
	portfolios *service.PortfolioService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// A temp file rather than ":memory:" so every pooled connection sees
	// the same database.
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	authSvc := service.NewAuthService(db, tokens, passwords, logger)
	portfolioSvc := service.NewPortfolioService(db, logger)

	return &testEnv{
		auth:       handler.NewAuthHandler(authSvc, logger),
		portfolio:  handler.NewPortfolioHandler(portfolioSvc, logger),
		site:       handler.NewSiteHandler(portfolioSvc, "https://withlumeo.com", logger),
		tokens:     tokens,
		authSvc:    authSvc,
		portfolios: portfolioSvc,
	}
}

// register creates an account through the HTTP handler and returns the
// decoded response body.
func (e *testEnv) register(t *testing.T, username, email, password string) map[string]any {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	e.auth.HandleRegister(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("register %q: status = %d, body = %s", username, rr.Code, rr.Body.String())
	}

	var resp map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding register response: %v", err)
	}
	return resp
}

// authed builds a request carrying a valid bearer token and the userID in
// context, the way RequireAuth would hand it to the handler.
func authed(t *testing.T, tokens *auth.TokenService, method, target, token string, body []byte) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	// Run the real middleware so context population matches production.
	var out *http.Request
	mw := auth.RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out = r
	}))
	mw.ServeHTTP(httptest.NewRecorder(), req)
	if out == nil {
		t.Fatalf("RequireAuth rejected a token that should be valid")
	}
	return out
}
