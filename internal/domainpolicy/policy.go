// Package domainpolicy decides whether a feed host is on the admin blocklist.
//
// Entries are either literal hostnames or wildcard patterns of the form
// "*.suffix". A literal entry blocks the host and every subdomain of it. A
// wildcard entry blocks the bare suffix and every subdomain of it. Blocking
// never propagates upward: "sub.example.com" does not block "example.com".
// Enterprise plans bypass the blocklist entirely.
package domainpolicy

import (
	"net/url"
	"strings"

	"feedreader/internal/domain"
)

const wildcardPrefix = "*."

// Verdict is the outcome of a blocklist lookup.
type Verdict struct {
	Blocked bool
	Reason  *string
}

// NormalizeDomain lowercases raw, trims whitespace, drops the root label of a
// fully-qualified name and strips one leading "www." label. Wildcard markers
// are kept.
func NormalizeDomain(raw string) string {
	d := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), ".")
	return strings.TrimPrefix(d, "www.")
}

// ValidPattern reports whether a normalized entry is a hostname or a
// "*.suffix" wildcard.
func ValidPattern(pattern string) bool {
	host := strings.TrimPrefix(pattern, "*.")
	return host != "" && !strings.ContainsAny(host, "/:* ")
}

// ExtractDomain returns the hostname of rawURL without its port. It reports
// false when rawURL is not an absolute URL with a host.
func ExtractDomain(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return "", false
	}
	host := strings.TrimSuffix(u.Hostname(), ".")
	if host == "" {
		return "", false
	}
	return strings.ToLower(host), true
}

// IsDomainBlocked reports whether candidate matches any pattern in blocked.
func IsDomainBlocked(candidate string, blocked []string, plan domain.UserPlan) bool {
	if bypass(plan) {
		return false
	}
	c := NormalizeDomain(candidate)
	if c == "" {
		return false
	}
	for _, pattern := range blocked {
		if matches(c, pattern) {
			return true
		}
	}
	return false
}

// BlockedDomainReason is IsDomainBlocked that also returns the reason
// stored on the first matching entry.
func BlockedDomainReason(candidate string, entries []domain.BlockedDomain, plan domain.UserPlan) Verdict {
	if bypass(plan) {
		return Verdict{}
	}
	c := NormalizeDomain(candidate)
	if c == "" {
		return Verdict{}
	}
	for _, e := range entries {
		if matches(c, e.Domain) {
			return Verdict{Blocked: true, Reason: e.Reason}
		}
	}
	return Verdict{}
}

func bypass(plan domain.UserPlan) bool {
	return plan == domain.UserPlanEnterprise
}

// matches expects candidate to be normalized already.
func matches(candidate, pattern string) bool {
	p := NormalizeDomain(pattern)
	if suffix, ok := strings.CutPrefix(p, wildcardPrefix); ok {
		p = suffix
	}
	if p == "" {
		return false
	}
	return candidate == p || strings.HasSuffix(candidate, "."+p)
}
