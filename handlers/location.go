package handlers

import (
	"net/http"
	"regexp"
)

// Matches the region subtag of a language-region tag, e.g. "en-GB" or "zho-TW".
var languageRegionPattern = regexp.MustCompile(`^[a-zA-Z]{2,3}-([A-Z]{2})`)

// countryFromRequest derives a coarse location for click analytics.
// Priority: explicit country header from an edge proxy, then the region
// subtag of Accept-Language, then "Unknown".
func countryFromRequest(r *http.Request) string {
	if country := r.Header.Get("CF-IPCountry"); country != "" {
		return country
	}
	if country := r.Header.Get("X-Country"); country != "" {
		return country
	}
	if lang := r.Header.Get("Accept-Language"); lang != "" {
		if m := languageRegionPattern.FindStringSubmatch(lang); m != nil {
			return m[1]
		}
	}
	return "Unknown"
}
