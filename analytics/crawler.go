// Package analytics records which crawlers fetch the pages that carry social
// previews, so editors can see whether a shared link was picked up.
package analytics

import (
	"strings"
	"time"
)

// crawlers is checked in order. Several link expanders mention other bots in
// their User-Agent (Telegram claims to be "like TwitterBot"), so the more
// specific patterns come first.
var crawlers = []struct {
	pattern string
	name    string
}{
	{"telegrambot", "Telegram"},
	{"whatsapp", "WhatsApp"},
	{"facebookexternalhit", "Facebook"},
	{"facebookcatalog", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"slackbot", "Slack"},
	{"discordbot", "Discord"},
	{"pinterest", "Pinterest"},
	{"skypeuripreview", "Skype"},
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"yandex", "Yandex"},
	{"baiduspider", "Baidu"},
	{"duckduckbot", "DuckDuckBot"},
	{"applebot", "Applebot"},
}

var genericMarkers = []string{"bot", "crawler", "spider", "crawl", "slurp", "scrape"}

// CrawlerName returns the crawler name for a User-Agent, "Other Bot" for
// unrecognised bots and "" for everything else.
func CrawlerName(ua string) string {
	ua = strings.ToLower(ua)
	if ua == "" {
		return ""
	}
	for _, c := range crawlers {
		if strings.Contains(ua, c.pattern) {
			return c.name
		}
	}
	for _, m := range genericMarkers {
		if strings.Contains(ua, m) {
			return "Other Bot"
		}
	}
	return ""
}

// IsCrawler reports whether ua belongs to a crawler or link expander.
func IsCrawler(ua string) bool {
	return CrawlerName(ua) != ""
}

// Hit is one crawler request for a detail page.
type Hit struct {
	Crawler    string    `json:"crawler"`
	Path       string    `json:"path"`
	DocumentID string    `json:"document_id"`
	Injected   bool      `json:"injected"` // false when the default shell was served
	Timestamp  time.Time `json:"timestamp"`
}

// DimensionStat is a name with its hit count.
type DimensionStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats aggregates hits over a period.
type Stats struct {
	Period    string          `json:"period"`
	Total     int             `json:"total"`
	Injected  int             `json:"injected"`
	Fallbacks int             `json:"fallbacks"`
	Crawlers  []DimensionStat `json:"crawlers"`
	Documents []DimensionStat `json:"documents"`
}
