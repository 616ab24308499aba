package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/withlumeo/lumeo/internal/apperror"
	"github.com/withlumeo/lumeo/internal/auth"
	"github.com/withlumeo/lumeo/internal/service"
	"github.com/withlumeo/lumeo/internal/tenant"
)

// PortfolioHandler exposes the authenticated owner routes and the public
// tenant-resolution routes.
type PortfolioHandler struct {
	portfolios *service.PortfolioService
	logger     *slog.Logger
}

func NewPortfolioHandler(portfolios *service.PortfolioService, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolios: portfolios, logger: logger}
}

type updateManifestRequest struct {
	Manifest json.RawMessage `json:"manifest"`
}

type updateSubdomainRequest struct {
	Subdomain string `json:"subdomain"`
}

type updateThemeRequest struct {
	Theme string `json:"theme"`
}

// HandleGetMine returns the caller's own portfolio.
//
// HTTP: GET /api/portfolio/me
func (h *PortfolioHandler) HandleGetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	p, err := h.portfolios.GetMine(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpdateMine replaces the caller's manifest wholesale.
//
// HTTP: PUT /api/portfolio/me, body {"manifest": {...}}
func (h *PortfolioHandler) HandleUpdateMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req updateManifestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.portfolios.ReplaceManifest(r.Context(), userID, req.Manifest); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.portfolios.GetMine(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpdateSubdomain changes the caller's subdomain.
//
// HTTP: PUT /api/portfolio/me/subdomain, body {"subdomain": "my-site"}
func (h *PortfolioHandler) HandleUpdateSubdomain(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req updateSubdomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.portfolios.UpdateSubdomain(r.Context(), userID, req.Subdomain); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "subdomain updated",
		"subdomain": req.Subdomain,
	})
}

// HandleUpdateTheme changes the caller's stored theme selector.
//
// HTTP: PUT /api/portfolio/me/theme, body {"theme": "newspaper"}
func (h *PortfolioHandler) HandleUpdateTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req updateThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.portfolios.UpdateTheme(r.Context(), userID, req.Theme); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "theme updated",
		"theme":   req.Theme,
	})
}

// HandleGetBySubdomain resolves a tenant for public rendering.
//
// HTTP: GET /api/portfolio/public/subdomain?subdomain=alice
//
// The explicit query parameter wins; without it, the tenant derived from the
// Host header by the resolver middleware is used. Neither present → 400.
func (h *PortfolioHandler) HandleGetBySubdomain(w http.ResponseWriter, r *http.Request) {
	subdomain := r.URL.Query().Get("subdomain")
	if subdomain == "" {
		subdomain, _ = tenant.FromContext(r.Context())
	}
	if subdomain == "" {
		writeError(w, apperror.ValidationFailed("subdomain", "no subdomain in query or host"))
		return
	}

	p, err := h.portfolios.GetBySubdomain(r.Context(), subdomain)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleListPublic returns the public directory listing.
//
// HTTP: GET /api/portfolio/public
func (h *PortfolioHandler) HandleListPublic(w http.ResponseWriter, r *http.Request) {
	list, err := h.portfolios.ListPublic(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
