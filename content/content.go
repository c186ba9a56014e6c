// Package content defines the document records read from the content store
// and the interfaces through which the site reads them.
package content

import (
	"context"
	"errors"
	"time"

	"github.com/shisei-sport/clubsite/media"
	"github.com/shisei-sport/clubsite/richtext"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("content: document not found")

// Collections served by the site.
const (
	CollectionNews        = "news"
	CollectionInstructors = "instructors"
	CollectionDocuments   = "documents"
	CollectionEvents      = "events"
	CollectionGrades      = "grades"
)

// Document is a stored content record with a rich-text body.
type Document struct {
	ID          string             `json:"id"`
	Collection  string             `json:"collection"`
	Locale      string             `json:"locale,omitempty"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug,omitempty"`
	Body        *richtext.Document `json:"-"`
	Cover       media.Ref          `json:"cover"`
	PublishedAt time.Time          `json:"publishedAt,omitempty"`
}

// Reader fetches a single document in a locale.
type Reader interface {
	GetDocument(ctx context.Context, collection, id, locale string) (*Document, error)
}

// Lister lists the published documents of a collection, newest first.
type Lister interface {
	ListDocuments(ctx context.Context, collection, locale string) ([]Document, error)
}

// Source is a content store that can both fetch and list.
type Source interface {
	Reader
	Lister
}
