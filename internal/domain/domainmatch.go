package domain

import "strings"

// DomainAuthorized decides whether a normalized page domain may embed a
// widget whose owner configured allowed. Rules, in order: agency tier
// embeds anywhere; localhost is always allowed for development; otherwise
// the domain must equal an allow-list entry or sit under it on a label
// boundary ("api.example.com" matches "example.com",
// "evilexample.com" does not).
//
// Allow-list entries are normalized with the same rules as the referer so
// owners may paste full URLs into the dashboard. No wildcards, no regex.
func DomainAuthorized(domain string, allowed []string, tier Tier) bool {
	if tier == TierAgency {
		return true
	}
	if domain == "localhost" {
		return true
	}
	if domain == "" {
		return false
	}
	for _, entry := range allowed {
		base, ok := NormalizeReferer(entry)
		if !ok {
			continue
		}
		if domain == base || strings.HasSuffix(domain, "."+base) {
			return true
		}
	}
	return false
}
