package middleware

import (
	"net/http"
	"strings"
)

// Canonical issues the production canonicalization redirects:
//
//   - http → https (detected via X-Forwarded-Proto, set by the proxy)
//   - www.{rootDomain} → {rootDomain}
//
// Tenant subdomains are left alone — only the www alias of the apex is
// rewritten. Intended for production mode only; local traffic has neither
// the proxy header nor the www host.
func Canonical(rootDomain string) func(http.Handler) http.Handler {
	wwwHost := "www." + rootDomain

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := stripPort(r.Host)

			if r.Header.Get("X-Forwarded-Proto") == "http" {
				target := "https://" + canonicalHost(host, wwwHost, rootDomain) + r.URL.RequestURI()
				http.Redirect(w, r, target, http.StatusMovedPermanently)
				return
			}

			if host == wwwHost {
				target := "https://" + rootDomain + r.URL.RequestURI()
				http.Redirect(w, r, target, http.StatusMovedPermanently)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// canonicalHost folds the www alias into the apex so an http+www request
// redirects once, not twice.
func canonicalHost(host, wwwHost, rootDomain string) string {
	if host == wwwHost {
		return rootDomain
	}
	return host
}

func stripPort(host string) string {
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		return host[:i]
	}
	return host
}
