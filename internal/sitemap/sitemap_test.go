package sitemap

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/withlumeo/lumeo/internal/model"
)

type parsedURLSet struct {
	URLs []struct {
		Loc        string `xml:"loc"`
		LastMod    string `xml:"lastmod"`
		ChangeFreq string `xml:"changefreq"`
		Priority   string `xml:"priority"`
	} `xml:"url"`
}

func TestGenerate(t *testing.T) {
	updated := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	portfolios := []model.PublicPortfolio{
		{Username: "alice", Subdomain: "alice", UpdatedAt: updated},
		{Username: "bob", Subdomain: "bobsite", UpdatedAt: updated.Add(24 * time.Hour)},
	}

	out, err := Generate("https://withlumeo.com", portfolios)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !strings.HasPrefix(string(out), "<?xml") {
		t.Error("output missing XML declaration")
	}

	var set parsedURLSet
	if err := xml.Unmarshal(out, &set); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}

	// Exactly one root entry plus one per public portfolio
	if len(set.URLs) != 3 {
		t.Fatalf("url count = %d, want 3", len(set.URLs))
	}

	root := set.URLs[0]
	if root.Loc != "https://withlumeo.com/" {
		t.Errorf("root loc = %q", root.Loc)
	}
	if root.ChangeFreq != "weekly" || root.Priority != "1.0" {
		t.Errorf("root changefreq/priority = %q/%q, want weekly/1.0", root.ChangeFreq, root.Priority)
	}

	alice := set.URLs[1]
	if alice.Loc != "https://withlumeo.com/alice" {
		t.Errorf("alice loc = %q", alice.Loc)
	}
	if alice.LastMod != "2025-06-15" {
		t.Errorf("alice lastmod = %q, want 2025-06-15", alice.LastMod)
	}
	if alice.ChangeFreq != "monthly" || alice.Priority != "0.8" {
		t.Errorf("alice changefreq/priority = %q/%q, want monthly/0.8", alice.ChangeFreq, alice.Priority)
	}
}

func TestGenerate_EmptyListing(t *testing.T) {
	out, err := Generate("https://withlumeo.com/", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var set parsedURLSet
	if err := xml.Unmarshal(out, &set); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if len(set.URLs) != 1 {
		t.Fatalf("url count = %d, want just the root", len(set.URLs))
	}
	// Trailing slash on baseURL must not double up
	if set.URLs[0].Loc != "https://withlumeo.com/" {
		t.Errorf("root loc = %q", set.URLs[0].Loc)
	}
}
