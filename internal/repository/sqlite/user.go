package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/withlumeo/lumeo/internal/apperror"
	"github.com/withlumeo/lumeo/internal/model"
	"github.com/withlumeo/lumeo/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUserWithPortfolio inserts the user and their portfolio atomically.
// A crash or failure between the two inserts rolls both back — a user
// without a portfolio can never exist.
func (db *DB) CreateUserWithPortfolio(ctx context.Context, user *model.User, portfolio *model.Portfolio) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	portfolio.ID = xid.New().String()
	portfolio.UserID = user.ID
	portfolio.CreatedAt = now
	portfolio.UpdatedAt = now

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if col := uniqueViolation(err); col != "" {
			return duplicateError(col)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO portfolios (id, user_id, manifest, theme, subdomain, is_public, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		portfolio.ID, portfolio.UserID, string(portfolio.Manifest), portfolio.Theme,
		portfolio.Subdomain, portfolio.IsPublic, portfolio.CreatedAt, portfolio.UpdatedAt,
	)
	if err != nil {
		if col := uniqueViolation(err); col != "" {
			return duplicateError(col)
		}
		return fmt.Errorf("sqlite: inserting portfolio for user %q: %w", user.Username, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing registration: %w", err)
	}
	return nil
}

// GetUserByUsername retrieves a user by their (case-sensitive) username.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = ?`, username)
}

// GetUserByEmail retrieves a user by their email address.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `SELECT id, username, email, password_hash, created_at
		FROM users WHERE email = ?`, email)
}

// GetUserByID retrieves a user by their internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `SELECT id, username, email, password_hash, created_at
		FROM users WHERE id = ?`, id)
}

func (db *DB) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	return &u, nil
}

// DeleteUserByUsername removes a user. The companion portfolio row is
// removed by ON DELETE CASCADE (foreign_keys is ON).
func (db *DB) DeleteUserByUsername(ctx context.Context, username string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %q: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %q: %w", username, err)
	}
	if n == 0 {
		return apperror.NotFound("user")
	}
	return nil
}

// duplicateError translates a violated unique column into the domain error
// the services and handlers expect.
func duplicateError(column string) error {
	switch column {
	case "users.username":
		return apperror.Duplicate("username", "username is already taken")
	case "users.email":
		return apperror.Duplicate("email", "email is already registered")
	case "portfolios.subdomain":
		return apperror.Duplicate("subdomain", "subdomain is already taken")
	case "portfolios.user_id":
		return apperror.Duplicate("userId", "user already has a portfolio")
	default:
		return apperror.Duplicate("", "duplicate value for "+column)
	}
}
