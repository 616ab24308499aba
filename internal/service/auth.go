// Package service contains the business logic layer: validation, business
// rules, and orchestration. Services accept primitives and return domain
// errors — they know nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/withlumeo/lumeo/internal/apperror"
	"github.com/withlumeo/lumeo/internal/auth"
	"github.com/withlumeo/lumeo/internal/model"
	"github.com/withlumeo/lumeo/internal/repository"
)

const MinPasswordLength = 6

// AuthResult is what register and login hand back to the HTTP layer.
type AuthResult struct {
	User  model.PublicUser `json:"user"`
	Token string           `json:"token"`
}

// AuthService registers and authenticates users.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a user together with their placeholder portfolio and
// issues an access token.
//
// The portfolio is seeded with the default manifest, theme "minimal", and a
// subdomain equal to the lower-cased username. Both rows are written in one
// transaction: a failure on either side leaves no trace.
//
// The username/email lookup before the insert is only a fast path for a
// precise error message — two concurrent registrations can both pass it, and
// the storage unique index catches the loser with the same duplicate error.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, apperror.Duplicate("username", "username is already taken")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking username availability: %w", err)
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperror.Duplicate("email", "email is already registered")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking email availability: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	portfolio := &model.Portfolio{
		Manifest:  model.DefaultManifest(username),
		Theme:     model.ThemeMinimal,
		Subdomain: strings.ToLower(username),
		IsPublic:  true,
	}

	if err := s.users.CreateUserWithPortfolio(ctx, user, portfolio); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, err
		}
		s.logger.Error("registration failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
		slog.String("subdomain", portfolio.Subdomain),
	)

	return &AuthResult{User: user.Public(), Token: token}, nil
}

// Login authenticates a username/password pair and issues a fresh token.
//
// Unknown usernames and wrong passwords return the identical error so the
// response cannot be used to enumerate accounts. (The lookup cost still
// differs between the two paths; known limitation.)
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid username or password")
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user.Public(), Token: token}, nil
}

// DeleteUser removes the account named username. The caller may only delete
// their own account; the portfolio row is removed with it. Issued tokens
// stay formally valid until expiry but fail at the user lookup.
func (s *AuthService) DeleteUser(ctx context.Context, callerID, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperror.ValidationFailed("username", "username is required")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user.ID != callerID {
		// Same shape as an unknown user — don't confirm the account exists.
		return apperror.NotFound("user")
	}

	if err := s.users.DeleteUserByUsername(ctx, username); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		slog.String("userID", user.ID),
		slog.String("username", username),
	)
	return nil
}
