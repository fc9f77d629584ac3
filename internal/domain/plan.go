package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Resource names a plan-bounded resource type.
type Resource string

const (
	ResourceSources     Resource = "sources"
	ResourcePublicFeeds Resource = "public_feeds"
	ResourceCategories  Resource = "categories"
)

// Resources lists every quota-bounded resource.
var Resources = []Resource{ResourceSources, ResourcePublicFeeds, ResourceCategories}

// Valid reports whether r is a known resource.
func (r Resource) Valid() bool {
	switch r {
	case ResourceSources, ResourcePublicFeeds, ResourceCategories:
		return true
	}
	return false
}

// Label is the lower-case human name used in client messages.
func (r Resource) Label() string {
	return strings.ReplaceAll(string(r), "_", " ")
}

// Title is Label in title case ("Public Feeds").
func (r Resource) Title() string {
	return cases.Title(language.English).String(r.Label())
}

// ResourceLimits holds per-plan ceilings for each resource.
type ResourceLimits struct {
	Sources     int
	PublicFeeds int
	Categories  int
}

// For returns the ceiling for r, or 0 for unknown resources.
func (l ResourceLimits) For(r Resource) int {
	switch r {
	case ResourceSources:
		return l.Sources
	case ResourcePublicFeeds:
		return l.PublicFeeds
	case ResourceCategories:
		return l.Categories
	}
	return 0
}

// QuotaSnapshot is the plan-derived view of a user's limits. Read-only within a request.
type QuotaSnapshot struct {
	APIRateLimitPerMinute int
	ResourceLimits        ResourceLimits
}

var planQuotas = map[UserPlan]QuotaSnapshot{
	UserPlanFree: {
		APIRateLimitPerMinute: 60,
		ResourceLimits:        ResourceLimits{Sources: 10, PublicFeeds: 1, Categories: 10},
	},
	UserPlanPro: {
		APIRateLimitPerMinute: 300,
		ResourceLimits:        ResourceLimits{Sources: 200, PublicFeeds: 10, Categories: 100},
	},
	UserPlanEnterprise: {
		APIRateLimitPerMinute: 1000,
		ResourceLimits:        ResourceLimits{Sources: 5000, PublicFeeds: 100, Categories: 1000},
	},
}

// QuotaForPlan returns the snapshot for p. Unknown plans get the free tier.
func QuotaForPlan(p UserPlan) QuotaSnapshot {
	if q, ok := planQuotas[p]; ok {
		return q
	}
	return planQuotas[UserPlanFree]
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
