package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/withlumeo/lumeo/internal/apperror"
	"github.com/withlumeo/lumeo/internal/model"
	"github.com/withlumeo/lumeo/internal/repository"
	"github.com/withlumeo/lumeo/internal/tenant"
)

// MaxManifestBytes bounds a stored manifest document. Generous for a
// profile; small enough that nobody turns the column into blob storage.
const MaxManifestBytes = 512 * 1024

// PortfolioService handles reads and writes of portfolio documents.
type PortfolioService struct {
	portfolios repository.PortfolioRepository
	logger     *slog.Logger
}

func NewPortfolioService(portfolios repository.PortfolioRepository, logger *slog.Logger) *PortfolioService {
	return &PortfolioService{
		portfolios: portfolios,
		logger:     logger,
	}
}

// GetMine returns the caller's own portfolio, private or not.
func (s *PortfolioService) GetMine(ctx context.Context, userID string) (*model.Portfolio, error) {
	return s.portfolios.GetPortfolioByUserID(ctx, userID)
}

// ReplaceManifest swaps the caller's manifest document wholesale.
//
// The document must parse as JSON; beyond that there is no schema
// validation — `{}` is a legal manifest. Lenience is intentional: the
// manifest shape belongs to the frontend editor, and rejecting unknown
// fields here would break it on every editor release.
func (s *PortfolioService) ReplaceManifest(ctx context.Context, userID string, manifest json.RawMessage) error {
	if len(manifest) == 0 {
		return apperror.ValidationFailed("manifest", "manifest is required")
	}
	if len(manifest) > MaxManifestBytes {
		return apperror.ValidationFailed("manifest", "manifest is too large")
	}
	if !json.Valid(manifest) {
		return apperror.ValidationFailed("manifest", "manifest must be valid JSON")
	}

	if err := s.portfolios.ReplaceManifest(ctx, userID, manifest); err != nil {
		return err
	}

	s.logger.Info("manifest replaced", slog.String("userID", userID))
	return nil
}

// UpdateSubdomain changes the caller's routing key after syntax validation.
// Uniqueness is enforced by the storage index; on conflict the original
// subdomain is untouched.
func (s *PortfolioService) UpdateSubdomain(ctx context.Context, userID, subdomain string) error {
	if err := tenant.ValidateSubdomain(subdomain); err != nil {
		return err
	}

	if err := s.portfolios.UpdateSubdomain(ctx, userID, subdomain); err != nil {
		return err
	}

	s.logger.Info("subdomain updated",
		slog.String("userID", userID),
		slog.String("subdomain", subdomain),
	)
	return nil
}

// UpdateTheme changes the caller's stored theme selector.
func (s *PortfolioService) UpdateTheme(ctx context.Context, userID, theme string) error {
	if !model.IsValidTheme(theme) {
		return apperror.ValidationFailed("theme", "unknown theme")
	}

	if err := s.portfolios.UpdateTheme(ctx, userID, theme); err != nil {
		return err
	}

	s.logger.Info("theme updated",
		slog.String("userID", userID),
		slog.String("theme", theme),
	)
	return nil
}

// GetBySubdomain resolves a tenant for unauthenticated rendering.
//
// Private portfolios return the same NotFound as nonexistent ones — the
// response must not reveal whether a subdomain is claimed.
func (s *PortfolioService) GetBySubdomain(ctx context.Context, subdomain string) (*model.Portfolio, error) {
	if subdomain == "" {
		return nil, apperror.ValidationFailed("subdomain", "subdomain is required")
	}

	p, err := s.portfolios.GetPortfolioBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	if !p.IsPublic {
		return nil, apperror.NotFound("portfolio")
	}
	return p, nil
}

// ListPublic returns the public directory listing.
func (s *PortfolioService) ListPublic(ctx context.Context) ([]model.PublicPortfolio, error) {
	list, err := s.portfolios.ListPublicPortfolios(ctx)
	if err != nil {
		s.logger.Error("failed to list public portfolios", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing public portfolios: %w", err)
	}
	return list, nil
}
