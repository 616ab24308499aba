// Package tenant resolves which hosted portfolio an inbound request is for.
//
// A tenant is addressed by subdomain: alice.withlumeo.com routes to the
// portfolio whose subdomain is "alice". The resolver derives the candidate
// from the Host header; handlers may also accept an explicit ?subdomain=
// query which takes precedence.
package tenant

import (
	"context"
	"net/http"
	"regexp"
	"strings"
)

type contextKey string

const tenantKey contextKey = "tenant"

var dottedQuad = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

// Resolver extracts tenant identifiers from Host headers.
type Resolver struct {
	rootDomain string
}

func NewResolver(rootDomain string) *Resolver {
	return &Resolver{rootDomain: rootDomain}
}

// ExtractTenant derives the tenant subdomain from a Host header value, or
// returns "" for a bare/root-domain request.
//
// This is a best-effort heuristic over dot-separated labels, not a strict
// grammar. Known limitations, kept deliberately: a port glued to the last
// label defeats the root-domain match, IPv6 literals are not handled, and a
// root domain with more than two labels would break the last-two-labels
// comparison. Downstream routing depends on this exact branching.
func (r *Resolver) ExtractTenant(host string) string {
	if host == "" {
		return ""
	}

	labels := strings.Split(host, ".")
	n := len(labels)

	if n > 2 || (n == 2 && labels[0] != "localhost" && !strings.Contains(host, ":")) {
		candidate := labels[0]

		// The apex itself and its www alias never name a tenant.
		if candidate == "www" || host == r.rootDomain {
			return ""
		}

		base := strings.Join(labels[n-2:], ".")
		if base == r.rootDomain || labels[n-1] == "localhost" {
			return candidate
		}
		return ""
	}

	// Two labels with a port (alice.localhost:3000) or a localhost first
	// label. Reject bare localhost and IPv4 literals.
	if n == 2 && labels[0] != "www" && !strings.Contains(labels[0], ":") {
		candidate := labels[0]
		if candidate == "localhost" || dottedQuad.MatchString(stripPort(host)) {
			return ""
		}
		return candidate
	}

	return ""
}

// Middleware attaches the host-derived tenant (if any) to the request
// context. It never blocks a request — root-domain traffic simply carries
// no tenant.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if sub := r.ExtractTenant(req.Host); sub != "" {
			ctx := context.WithValue(req.Context(), tenantKey, sub)
			req = req.WithContext(ctx)
		}
		next.ServeHTTP(w, req)
	})
}

// FromContext returns the tenant attached by Middleware.
// Returns ("", false) for root-domain requests.
func FromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(tenantKey).(string)
	return sub, ok && sub != ""
}

func stripPort(host string) string {
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		return host[:i]
	}
	return host
}
