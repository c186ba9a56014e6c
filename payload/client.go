// Package payload reads documents from the headless CMS REST API.
package payload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shisei-sport/clubsite/content"
	"github.com/shisei-sport/clubsite/richtext"
)

// Default record field names.
const (
	DefaultTitleField = "title"
	DefaultBodyField  = "content"
	DefaultCoverField = "image"
	DefaultListLimit  = 20
)

// Client implements content.Source against the CMS REST API. One request per
// call; no retries.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string // optional

	TitleField string
	BodyField  string
	CoverField string
	ListLimit  int
}

var _ content.Source = (*Client)(nil)

// NewClient returns a Client for the CMS at baseURL with default field names.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		TitleField: DefaultTitleField,
		BodyField:  DefaultBodyField,
		CoverField: DefaultCoverField,
		ListLimit:  DefaultListLimit,
	}
}

// GetDocument fetches GET {base}/api/{collection}/{id}?locale=…&depth=1.
// A 404 answer yields content.ErrNotFound.
func (c *Client) GetDocument(ctx context.Context, collection, id, locale string) (*content.Document, error) {
	q := url.Values{}
	if locale != "" {
		q.Set("locale", locale)
	}
	q.Set("depth", "1")

	var rec map[string]any
	if err := c.get(ctx, "/api/"+url.PathEscape(collection)+"/"+url.PathEscape(id), q, &rec); err != nil {
		return nil, fmt.Errorf("payload: get %s/%s: %w", collection, id, err)
	}
	doc := c.document(collection, locale, rec)
	if doc.ID == "" {
		doc.ID = id
	}
	return &doc, nil
}

// ListDocuments fetches the newest documents of a collection.
func (c *Client) ListDocuments(ctx context.Context, collection, locale string) ([]content.Document, error) {
	limit := c.ListLimit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	q := url.Values{}
	if locale != "" {
		q.Set("locale", locale)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", "-publishedAt")
	q.Set("depth", "1")

	var page struct {
		Docs []map[string]any `json:"docs"`
	}
	if err := c.get(ctx, "/api/"+url.PathEscape(collection), q, &page); err != nil {
		return nil, fmt.Errorf("payload: list %s: %w", collection, err)
	}
	out := make([]content.Document, 0, len(page.Docs))
	for _, rec := range page.Docs {
		out = append(out, c.document(collection, locale, rec))
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.BaseURL == "" {
		return errors.New("missing cms base url")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return content.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("cms status: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) document(collection, locale string, rec map[string]any) content.Document {
	doc := content.Document{
		ID:         idString(rec["id"]),
		Collection: collection,
		Locale:     locale,
		Title:      stringField(rec, orDefault(c.TitleField, DefaultTitleField)),
		Slug:       stringField(rec, "slug"),
		Body:       richtext.FromValue(rec[orDefault(c.BodyField, DefaultBodyField)]),
	}
	if raw, ok := rec[orDefault(c.CoverField, DefaultCoverField)]; ok && raw != nil {
		if b, err := json.Marshal(raw); err == nil {
			_ = json.Unmarshal(b, &doc.Cover)
		}
	}
	if s := stringField(rec, "publishedAt"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			doc.PublishedAt = t
		}
	}
	return doc
}

func stringField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
