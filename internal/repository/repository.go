// Package repository defines the storage interfaces implemented by the
// sqlite backend. Services depend on these interfaces, never on the
// concrete database type.
package repository

import (
	"context"
	"encoding/json"

	"github.com/withlumeo/lumeo/internal/model"
)

// UserRepository persists identity records.
type UserRepository interface {
	// CreateUserWithPortfolio inserts the user and their portfolio in one
	// transaction — either both rows exist afterwards or neither does.
	// Duplicate username/email/subdomain surface as apperror.ErrDuplicate
	// with the offending field set.
	CreateUserWithPortfolio(ctx context.Context, user *model.User, portfolio *model.Portfolio) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// DeleteUserByUsername removes the user; the portfolio row goes with it
	// (ON DELETE CASCADE). Returns apperror.ErrNotFound for unknown names.
	DeleteUserByUsername(ctx context.Context, username string) error
}

// PortfolioRepository persists portfolio documents and metadata.
// Every mutating call refreshes updated_at.
type PortfolioRepository interface {
	GetPortfolioByUserID(ctx context.Context, userID string) (*model.Portfolio, error)
	GetPortfolioBySubdomain(ctx context.Context, subdomain string) (*model.Portfolio, error)
	ListPublicPortfolios(ctx context.Context) ([]model.PublicPortfolio, error)
	ReplaceManifest(ctx context.Context, userID string, manifest json.RawMessage) error
	// UpdateSubdomain returns apperror.ErrDuplicate when another portfolio
	// already owns the subdomain; the caller's row is left unchanged.
	UpdateSubdomain(ctx context.Context, userID, subdomain string) error
	UpdateTheme(ctx context.Context, userID, theme string) error
}
