package handler

import (
	"log/slog"
	"net/http"

	"github.com/withlumeo/lumeo/internal/service"
	"github.com/withlumeo/lumeo/internal/sitemap"
)

// SiteHandler serves the SEO and liveness endpoints.
type SiteHandler struct {
	portfolios *service.PortfolioService
	baseURL    string
	logger     *slog.Logger
}

func NewSiteHandler(portfolios *service.PortfolioService, baseURL string, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{portfolios: portfolios, baseURL: baseURL, logger: logger}
}

// HandleSitemap renders sitemap.xml from the current public listing.
//
// HTTP: GET /sitemap.xml
func (h *SiteHandler) HandleSitemap(w http.ResponseWriter, r *http.Request) {
	list, err := h.portfolios.ListPublic(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := sitemap.Generate(h.baseURL, list)
	if err != nil {
		h.logger.Error("sitemap generation failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write sitemap", slog.String("error", err.Error()))
	}
}

// HandleHealth is the liveness probe.
//
// HTTP: GET /health
func (h *SiteHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
