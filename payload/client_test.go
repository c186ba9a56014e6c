package payload

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shisei-sport/clubsite/content"
	"github.com/shisei-sport/clubsite/richtext"
)

const newsRecord = `{
	"id": 42,
	"title": "Clubkampioenschap",
	"slug": "clubkampioenschap",
	"publishedAt": "2026-03-14T10:00:00.000Z",
	"image": {"id": 7, "url": "http://minio:9000/club/kamp.jpg", "sizes": {"thumbnail": {"url": "http://minio:9000/club/kamp-400x300.jpg"}}},
	"content": {"root": {"type": "root", "children": [
		{"type": "paragraph", "children": [{"type": "text", "text": "Zaterdag strijden alle leden."}]}
	]}}
}`

func TestGetDocument(t *testing.T) {
	var gotPath, gotLocale, gotDepth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLocale = r.URL.Query().Get("locale")
		gotDepth = r.URL.Query().Get("depth")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(newsRecord))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	doc, err := c.GetDocument(context.Background(), "news", "42", "nl")
	require.NoError(t, err)

	assert.Equal(t, "/api/news/42", gotPath)
	assert.Equal(t, "nl", gotLocale)
	assert.Equal(t, "1", gotDepth)

	assert.Equal(t, "42", doc.ID)
	assert.Equal(t, "news", doc.Collection)
	assert.Equal(t, "Clubkampioenschap", doc.Title)
	assert.Equal(t, "Zaterdag strijden alle leden.", richtext.PlainText(doc.Body))
	require.NotNil(t, doc.Cover.Media)
	assert.Equal(t, "7", doc.Cover.Media.ID)
	assert.Equal(t, 2026, doc.PublishedAt.Year())
}

func TestGetDocumentCustomFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"abc","name":"Sensei Jan","bio":{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"4e dan"}]}]}},"photo":"/media/jan.jpg"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.TitleField, c.BodyField, c.CoverField = "name", "bio", "photo"
	doc, err := c.GetDocument(context.Background(), "instructors", "abc", "")
	require.NoError(t, err)
	assert.Equal(t, "Sensei Jan", doc.Title)
	assert.Equal(t, "4e dan", richtext.PlainText(doc.Body))
	assert.Equal(t, "/media/jan.jpg", doc.Cover.URL)
}

func TestGetDocumentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewClient(srv.URL).GetDocument(context.Background(), "news", "x", "nl")
	if !errors.Is(err, content.ErrNotFound) {
		t.Errorf("GetDocument() error = %v, want content.ErrNotFound", err)
	}
}

func TestGetDocumentServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetDocument(context.Background(), "news", "x", "nl")
	require.Error(t, err)
	assert.False(t, errors.Is(err, content.ErrNotFound))
	assert.Equal(t, 1, calls, "no retries")
}

func TestGetDocumentMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetDocument(context.Background(), "news", "x", "nl")
	assert.Error(t, err)
}

func TestGetDocumentMissingBaseURL(t *testing.T) {
	_, err := (&Client{}).GetDocument(context.Background(), "news", "x", "nl")
	assert.Error(t, err)
}

func TestListDocuments(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/news", r.URL.Path)
		query = map[string]string{
			"locale": r.URL.Query().Get("locale"),
			"limit":  r.URL.Query().Get("limit"),
			"sort":   r.URL.Query().Get("sort"),
		}
		_, _ = w.Write([]byte(`{"docs":[` + newsRecord + `,{"id":43,"title":"Tweede"}],"totalDocs":2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.ListLimit = 5
	docs, err := c.ListDocuments(context.Background(), "news", "en")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, map[string]string{"locale": "en", "limit": "5", "sort": "-publishedAt"}, query)
	assert.Equal(t, "43", docs[1].ID)
	assert.True(t, docs[1].Body.Empty())
}
