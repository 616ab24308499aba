package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/withlumeo/lumeo/internal/apperror"
	"github.com/withlumeo/lumeo/internal/model"
	"github.com/withlumeo/lumeo/internal/repository"
)

// compile-time check that *DB implements repository.PortfolioRepository
var _ repository.PortfolioRepository = (*DB)(nil)

const portfolioColumns = `id, user_id, manifest, theme, subdomain, is_public, created_at, updated_at`

// GetPortfolioByUserID retrieves the portfolio owned by userID.
func (db *DB) GetPortfolioByUserID(ctx context.Context, userID string) (*model.Portfolio, error) {
	return db.getPortfolio(ctx,
		`SELECT `+portfolioColumns+` FROM portfolios WHERE user_id = ?`, userID)
}

// GetPortfolioBySubdomain retrieves the portfolio routed by subdomain.
// Visibility (is_public) is the service's concern, not the repository's.
func (db *DB) GetPortfolioBySubdomain(ctx context.Context, subdomain string) (*model.Portfolio, error) {
	return db.getPortfolio(ctx,
		`SELECT `+portfolioColumns+` FROM portfolios WHERE subdomain = ?`, subdomain)
}

func (db *DB) getPortfolio(ctx context.Context, query, arg string) (*model.Portfolio, error) {
	var p model.Portfolio
	var manifest string
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.UserID, &manifest, &p.Theme, &p.Subdomain, &p.IsPublic,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("portfolio")
		}
		return nil, fmt.Errorf("sqlite: getting portfolio: %w", err)
	}
	p.Manifest = json.RawMessage(manifest)
	return &p, nil
}

// ListPublicPortfolios returns directory rows for every public portfolio,
// most recently updated first.
func (db *DB) ListPublicPortfolios(ctx context.Context) ([]model.PublicPortfolio, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.username, p.subdomain, p.updated_at
		FROM portfolios p
		JOIN users u ON u.id = p.user_id
		WHERE p.is_public = 1
		ORDER BY p.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing public portfolios: %w", err)
	}
	defer rows.Close()

	list := []model.PublicPortfolio{}
	for rows.Next() {
		var e model.PublicPortfolio
		if err := rows.Scan(&e.Username, &e.Subdomain, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning public portfolio: %w", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating public portfolios: %w", err)
	}
	return list, nil
}

// ReplaceManifest stores a whole new manifest document for userID.
func (db *DB) ReplaceManifest(ctx context.Context, userID string, manifest json.RawMessage) error {
	return db.updatePortfolio(ctx, userID,
		`UPDATE portfolios SET manifest = ?, updated_at = ? WHERE user_id = ?`,
		string(manifest))
}

// UpdateSubdomain changes the routing key for userID's portfolio.
// A conflict with another portfolio's subdomain leaves the row untouched
// and returns a duplicate error.
func (db *DB) UpdateSubdomain(ctx context.Context, userID, subdomain string) error {
	return db.updatePortfolio(ctx, userID,
		`UPDATE portfolios SET subdomain = ?, updated_at = ? WHERE user_id = ?`,
		subdomain)
}

// UpdateTheme changes the stored theme selector for userID's portfolio.
func (db *DB) UpdateTheme(ctx context.Context, userID, theme string) error {
	return db.updatePortfolio(ctx, userID,
		`UPDATE portfolios SET theme = ?, updated_at = ? WHERE user_id = ?`,
		theme)
}

func (db *DB) updatePortfolio(ctx context.Context, userID, query, value string) error {
	res, err := db.conn.ExecContext(ctx, query, value, time.Now(), userID)
	if err != nil {
		if col := uniqueViolation(err); col != "" {
			return duplicateError(col)
		}
		return fmt.Errorf("sqlite: updating portfolio for user %s: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating portfolio for user %s: %w", userID, err)
	}
	if n == 0 {
		return apperror.NotFound("portfolio")
	}
	return nil
}
