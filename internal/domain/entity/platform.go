package entity

import (
	"strings"
)

// Platform identifies an advertising or analytics data source.
type Platform string

const (
	PlatformGoogleAnalytics Platform = "google_analytics"
	PlatformGoogleSheets    Platform = "google_sheets"
	PlatformLinkedInAds     Platform = "linkedin_ads"
	PlatformFacebookAds     Platform = "facebook_ads"
	PlatformGoogleAds       Platform = "google_ads"
	PlatformTwitterAds      Platform = "twitter_ads"
)

// Platforms lists every known platform in canonical order. Ranking ties are
// resolved in favour of the platform that appears first here.
var Platforms = []Platform{
	PlatformGoogleAnalytics,
	PlatformGoogleSheets,
	PlatformLinkedInAds,
	PlatformFacebookAds,
	PlatformGoogleAds,
	PlatformTwitterAds,
}

var platformNames = map[Platform]string{
	PlatformGoogleAnalytics: "Google Analytics 4",
	PlatformGoogleSheets:    "Google Sheets",
	PlatformLinkedInAds:     "LinkedIn Ads",
	PlatformFacebookAds:     "Facebook Ads",
	PlatformGoogleAds:       "Google Ads",
	PlatformTwitterAds:      "Twitter Ads",
}

// Platforms with their own metrics API. Everything else is estimated from
// campaign totals.
var dedicatedFeeds = map[Platform]bool{
	PlatformGoogleAnalytics: true,
	PlatformGoogleSheets:    true,
	PlatformLinkedInAds:     true,
}

var platformAliases = map[string]Platform{
	"google_analytics":   PlatformGoogleAnalytics,
	"google analytics":   PlatformGoogleAnalytics,
	"google analytics 4": PlatformGoogleAnalytics,
	"ga4":                PlatformGoogleAnalytics,
	"google_sheets":      PlatformGoogleSheets,
	"google sheets":      PlatformGoogleSheets,
	"sheets":             PlatformGoogleSheets,
	"linkedin_ads":       PlatformLinkedInAds,
	"linkedin ads":       PlatformLinkedInAds,
	"linkedin":           PlatformLinkedInAds,
	"facebook_ads":       PlatformFacebookAds,
	"facebook ads":       PlatformFacebookAds,
	"facebook":           PlatformFacebookAds,
	"meta":               PlatformFacebookAds,
	"google_ads":         PlatformGoogleAds,
	"google ads":         PlatformGoogleAds,
	"twitter_ads":        PlatformTwitterAds,
	"twitter ads":        PlatformTwitterAds,
	"twitter":            PlatformTwitterAds,
	"x":                  PlatformTwitterAds,
}

// ParsePlatform resolves an id or display alias, case-insensitively.
func ParsePlatform(s string) (Platform, bool) {
	p, ok := platformAliases[strings.ToLower(strings.TrimSpace(s))]
	return p, ok
}

// ParsePlatformList parses a comma separated platform list into canonical
// order, dropping duplicates. Unknown names are returned separately.
func ParsePlatformList(s string) ([]Platform, []string) {
	seen := map[Platform]bool{}
	var unknown []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, ok := ParsePlatform(part)
		if !ok {
			unknown = append(unknown, part)
			continue
		}
		seen[p] = true
	}
	out := []Platform{}
	for _, p := range Platforms {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out, unknown
}

// DisplayName returns the human readable platform name.
func (p Platform) DisplayName() string {
	if n, ok := platformNames[p]; ok {
		return n
	}
	return string(p)
}

// HasDedicatedFeed reports whether the platform exposes its own metrics.
func (p Platform) HasDedicatedFeed() bool { return dedicatedFeeds[p] }

// Order returns the canonical position of the platform, or len(Platforms)
// for unknown values.
func (p Platform) Order() int {
	for i, q := range Platforms {
		if q == p {
			return i
		}
	}
	return len(Platforms)
}

// RawPlatformMetrics holds the counters reported for one platform of one campaign.
type RawPlatformMetrics struct {
	Platform    Platform `json:"platform"`
	Connected   bool     `json:"connected"`
	Impressions int64    `json:"impressions"`
	Clicks      int64    `json:"clicks"`
	Conversions int64    `json:"conversions"`
	Spend       float64  `json:"spend"`
}

// Normalize clamps negative counters to zero and zeroes everything when the
// platform is not connected.
func (m RawPlatformMetrics) Normalize() RawPlatformMetrics {
	if !m.Connected {
		return RawPlatformMetrics{Platform: m.Platform}
	}
	if m.Impressions < 0 {
		m.Impressions = 0
	}
	if m.Clicks < 0 {
		m.Clicks = 0
	}
	if m.Conversions < 0 {
		m.Conversions = 0
	}
	if m.Spend < 0 {
		m.Spend = 0
	}
	return m
}
