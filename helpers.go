package clubsite

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/shisei-sport/clubsite/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsoluteURL prefixes root-relative URLs with base. Absolute and empty URLs
// are returned unchanged.
func AbsoluteURL(base, u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(u, "/")
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// documentPath is the public path of a document: /<collection>/<id>. The
// preview service resolves the same id.
func documentPath(d content.Document) string {
	return "/" + d.Collection + "/" + url.PathEscape(d.ID)
}

// ArticleJsonLD returns a JSON-LD string for a NewsArticle schema.
func ArticleJsonLD(d content.Document, description, image string, cfg SiteConfig) string {
	pageURL := AbsoluteURL(cfg.URL, documentPath(d))
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "NewsArticle",
		"headline":    d.Title,
		"description": description,
		"url":         pageURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   pageURL,
		},
	}
	if !d.PublishedAt.IsZero() {
		data["datePublished"] = d.PublishedAt.Format(time.RFC3339)
	}
	if image != "" {
		data["image"] = AbsoluteURL(cfg.URL, image)
	}
	if d.Locale != "" {
		data["inLanguage"] = d.Locale
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "SportsOrganization",
			"name":  cfg.Name,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
