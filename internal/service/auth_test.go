package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/withlumeo/lumeo/internal/apperror"
	"github.com/withlumeo/lumeo/internal/auth"
	"github.com/withlumeo/lumeo/internal/model"
)

// fakeUserRepo is an in-memory UserRepository. A hand-written fake keeps the
// tests readable — every behavior is visible right here.
type fakeUserRepo struct {
	byUsername map[string]*model.User
	byID       map[string]*model.User
	portfolios map[string]*model.Portfolio // keyed by userID
	nextID     int

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byUsername: make(map[string]*model.User),
		byID:       make(map[string]*model.User),
		portfolios: make(map[string]*model.Portfolio),
		nextID:     1,
	}
}

func (f *fakeUserRepo) CreateUserWithPortfolio(ctx context.Context, user *model.User, portfolio *model.Portfolio) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, taken := f.byUsername[user.Username]; taken {
		return apperror.Duplicate("username", "username is already taken")
	}
	for _, u := range f.byUsername {
		if u.Email == user.Email {
			return apperror.Duplicate("email", "email is already registered")
		}
	}
	for _, p := range f.portfolios {
		if p.Subdomain == portfolio.Subdomain {
			return apperror.Duplicate("subdomain", "subdomain is already taken")
		}
	}

	now := time.Now()
	user.ID = "user-" + strconv.Itoa(f.nextID)
	user.CreatedAt = now
	f.nextID++

	portfolio.ID = "portfolio-" + user.ID
	portfolio.UserID = user.ID
	portfolio.CreatedAt = now
	portfolio.UpdatedAt = now

	f.byUsername[user.Username] = user
	f.byID[user.ID] = user
	f.portfolios[user.ID] = portfolio
	return nil
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, apperror.NotFound("user")
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.byUsername {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user")
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user")
	}
	return u, nil
}

func (f *fakeUserRepo) DeleteUserByUsername(ctx context.Context, username string) error {
	u, ok := f.byUsername[username]
	if !ok {
		return apperror.NotFound("user")
	}
	delete(f.byUsername, username)
	delete(f.byID, u.ID)
	delete(f.portfolios, u.ID) // cascade
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	ps := auth.NewPasswordServiceForTest(bcrypt.MinCost)
	return NewAuthService(repo, ts, ps, testLogger())
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	result, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if result.User.Username != "Alice" {
		t.Errorf("Username = %q, want %q", result.User.Username, "Alice")
	}
	if result.Token == "" {
		t.Fatal("Register() returned an empty token")
	}

	// The companion portfolio is provisioned with defaults
	p := repo.portfolios[result.User.ID]
	if p == nil {
		t.Fatal("no portfolio created with the user")
	}
	if p.Subdomain != "alice" {
		t.Errorf("Subdomain = %q, want lower-cased username %q", p.Subdomain, "alice")
	}
	if p.Theme != model.ThemeMinimal {
		t.Errorf("Theme = %q, want %q", p.Theme, model.ThemeMinimal)
	}

	var manifest model.Manifest
	if err := json.Unmarshal(p.Manifest, &manifest); err != nil {
		t.Fatalf("placeholder manifest is not valid JSON: %v", err)
	}
	if len(manifest.Skills) != 3 {
		t.Errorf("placeholder skills groups = %d, want 3", len(manifest.Skills))
	}

	// Password is stored hashed, never plain
	u := repo.byUsername["Alice"]
	if u.PasswordHash == "hunter22" || u.PasswordHash == "" {
		t.Error("password was not hashed")
	}
}

func TestRegister_TokenSubjectMatchesUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	result, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ts, _ := auth.NewTokenService("test-secret-at-least-16-chars!!")
	userID, err := ts.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != result.User.ID {
		t.Errorf("token subject = %q, want %q", userID, result.User.ID)
	}
}

func TestRegister_Validation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	tests := []struct {
		name                      string
		username, email, password string
	}{
		{"empty username", "", "a@example.com", "hunter22"},
		{"empty email", "alice", "", "hunter22"},
		{"empty password", "alice", "a@example.com", ""},
		{"short password", "alice", "a@example.com", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}

	if len(repo.byUsername) != 0 {
		t.Error("rejected registrations still created users")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "alice", "other@example.com", "hunter22")
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Fatalf("error = %v, want ErrDuplicate", err)
	}
	if len(repo.byUsername) != 1 {
		t.Errorf("user count = %d, want 1 — duplicate register created a record", len(repo.byUsername))
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	// The pre-check must catch this before the insert is attempted.
	repo.createErr = errors.New("create should not be reached")

	_, err := svc.Register(context.Background(), "bob", "alice@example.com", "hunter22")
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Fatalf("error = %v, want ErrDuplicate", err)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Field != "email" {
		t.Errorf("Field = %q, want %q", appErr.Field, "email")
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "alice", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() returned an empty token")
	}
	if result.User.Username != "alice" {
		t.Errorf("Username = %q, want %q", result.User.Username, "alice")
	}
}

func TestLogin_FailureShapeIsUniform(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, wrongPass := svc.Login(context.Background(), "alice", "not-the-password")
	_, noUser := svc.Login(context.Background(), "nobody", "whatever")

	for name, err := range map[string]error{"wrong password": wrongPass, "unknown user": noUser} {
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("%s: error = %v, want ErrUnauthorized", name, err)
		}
	}

	// Identical messages — no username enumeration through the error text.
	if wrongPass.Error() != noUser.Error() {
		t.Errorf("error messages differ: %q vs %q", wrongPass.Error(), noUser.Error())
	}
}

func TestDeleteUser_OwnAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	result, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := svc.DeleteUser(context.Background(), result.User.ID, "alice"); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if len(repo.byUsername) != 0 {
		t.Error("user still present after delete")
	}
	if len(repo.portfolios) != 0 {
		t.Error("portfolio survived user delete")
	}
}

func TestDeleteUser_OtherAccountLooksAbsent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	mallory, err := svc.Register(context.Background(), "mallory", "m@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	err = svc.DeleteUser(context.Background(), mallory.User.ID, "alice")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound (no existence confirmation)", err)
	}
	if _, ok := repo.byUsername["alice"]; !ok {
		t.Error("alice was deleted by another user")
	}
}
