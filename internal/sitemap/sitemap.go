// Package sitemap renders the sitemap.xml document from the public
// portfolio listing. Pure functions, no state.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/withlumeo/lumeo/internal/model"
)

const (
	rootChangeFreq      = "weekly"
	rootPriority        = "1.0"
	portfolioChangeFreq = "monthly"
	portfolioPriority   = "0.8"
)

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Generate renders the sitemap: one <url> for the site root and one per
// public portfolio at {baseURL}/{username}, lastmod taken from the
// portfolio's updatedAt. Private portfolios never appear because the input
// listing already excludes them.
func Generate(baseURL string, portfolios []model.PublicPortfolio) ([]byte, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")

	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []urlEntry{
			{
				Loc:        baseURL + "/",
				ChangeFreq: rootChangeFreq,
				Priority:   rootPriority,
			},
		},
	}

	for _, p := range portfolios {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        fmt.Sprintf("%s/%s", baseURL, p.Username),
			LastMod:    p.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: portfolioChangeFreq,
			Priority:   portfolioPriority,
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sitemap: marshalling: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}
