package clubsite

import "time"

// Teaser is a list entry for a collection overview.
type Teaser struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// Page is a full document with its body rendered to HTML.
type Page struct {
	ID          string    `json:"id"`
	Collection  string    `json:"collection"`
	Locale      string    `json:"locale,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	HTML        string    `json:"html"`
	URL         string    `json:"url"`
	JSONLD      string    `json:"jsonLd"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// apiError is the JSON body of API error responses.
type apiError struct {
	Error string `json:"error"`
}
