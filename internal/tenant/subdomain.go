package tenant

import (
	"regexp"
	"strings"

	"github.com/withlumeo/lumeo/internal/apperror"
)

const (
	// RFC 1035 label limits, minus very short names we reserve for the platform.
	minSubdomainLen = 3
	maxSubdomainLen = 63
)

var subdomainCharset = regexp.MustCompile(`^[a-z0-9-]+$`)

// reservedSubdomains can never be claimed by a user — they are platform
// routes or would collide with conventional DNS names.
var reservedSubdomains = []string{
	"www", "api", "admin", "app", "dashboard", "mail", "ftp", "localhost",
	"test", "staging", "dev", "blog", "docs", "help", "support",
}

// ValidateSubdomain checks candidate against the subdomain syntax policy
// and the reserved list. It returns the first violated rule as a validation
// error. Uniqueness is NOT checked here — that is the portfolio service's
// job at update time, backed by the storage unique index.
func ValidateSubdomain(candidate string) error {
	if len(candidate) < minSubdomainLen {
		return apperror.ValidationFailed("subdomain", "subdomain must be at least 3 characters")
	}
	if len(candidate) > maxSubdomainLen {
		return apperror.ValidationFailed("subdomain", "subdomain must be 63 characters or fewer")
	}
	if !subdomainCharset.MatchString(candidate) {
		return apperror.ValidationFailed("subdomain", "subdomain may only contain lowercase letters, digits, and hyphens")
	}
	if strings.HasPrefix(candidate, "-") || strings.HasSuffix(candidate, "-") {
		return apperror.ValidationFailed("subdomain", "subdomain may not start or end with a hyphen")
	}
	for _, reserved := range reservedSubdomains {
		if strings.EqualFold(candidate, reserved) {
			return apperror.ValidationFailed("subdomain", "this subdomain is reserved")
		}
	}
	return nil
}
