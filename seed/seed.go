// Package seed writes content into the local store. Bodies are authored with
// the richtext builders or loaded from YAML files and are normalized by the
// store before they are persisted.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	yaml "gopkg.in/yaml.v3"

	"github.com/shisei-sport/clubsite/content"
	"github.com/shisei-sport/clubsite/markdown"
	"github.com/shisei-sport/clubsite/media"
)

// Saver persists drafts. *content.Store implements it.
type Saver interface {
	SaveDocument(ctx context.Context, d content.Draft) error
}

// Seeder writes drafts and their images.
type Seeder struct {
	Store    Saver
	MediaDir string // where generated image renditions are written
	MediaURL string // public URL prefix for MediaDir, e.g. "/media/"
	Log      zerolog.Logger
}

// Entry is one document in a YAML seed file. The body is given either as a
// rich-text tree (Body) or as Markdown. Image names a local file,
// relative to the seed file, that is ingested into MediaDir and used as the
// cover; Cover is used as-is otherwise.
type Entry struct {
	Collection  string    `yaml:"collection"`
	ID          string    `yaml:"id"`
	Locale      string    `yaml:"locale"`
	Title       string    `yaml:"title"`
	Slug        string    `yaml:"slug"`
	PublishedAt time.Time `yaml:"publishedAt"`
	Draft       bool      `yaml:"draft"`
	Cover       string    `yaml:"cover"`
	Image       string    `yaml:"image"`
	Body        any       `yaml:"body"`
	Markdown    string    `yaml:"markdown"`
}

// LoadFile reads a YAML list of entries.
func LoadFile(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range entries {
		if entries[i].Image != "" && !filepath.IsAbs(entries[i].Image) {
			entries[i].Image = filepath.Join(dir, entries[i].Image)
		}
	}
	return entries, nil
}

// Run saves the built-in demo content followed by the entries.
func (s *Seeder) Run(ctx context.Context, entries []Entry) (int, error) {
	n := 0
	for _, d := range Demo(time.Now()) {
		if err := s.Store.SaveDocument(ctx, d); err != nil {
			return n, fmt.Errorf("seed %s/%s: %w", d.Collection, d.ID, err)
		}
		n++
	}
	for _, e := range entries {
		if err := s.SaveEntry(ctx, e); err != nil {
			return n, err
		}
		n++
	}
	s.Log.Info().Int("documents", n).Msg("seed complete")
	return n, nil
}

// SaveEntry ingests the entry image, if any, and saves the document.
func (s *Seeder) SaveEntry(ctx context.Context, e Entry) error {
	d := content.Draft{
		ID:          e.ID,
		Collection:  e.Collection,
		Locale:      e.Locale,
		Title:       e.Title,
		Slug:        e.Slug,
		Body:        e.Body,
		PublishedAt: e.PublishedAt,
		Published:   !e.Draft,
	}
	if d.Slug == "" {
		d.Slug = d.ID
	}
	if d.Body == nil && e.Markdown != "" {
		d.Body = markdown.Tree(e.Markdown)
	}
	switch {
	case e.Image != "":
		m, err := s.ImportImage(e.Image)
		if err != nil {
			return fmt.Errorf("seed %s/%s: %w", e.Collection, e.ID, err)
		}
		d.Cover = media.MediaRef(&m)
	case e.Cover != "":
		d.Cover = media.URLRef(e.Cover)
	}
	if err := s.Store.SaveDocument(ctx, d); err != nil {
		return fmt.Errorf("seed %s/%s: %w", e.Collection, e.ID, err)
	}
	s.Log.Debug().Str("collection", e.Collection).Str("id", e.ID).Str("locale", e.Locale).Msg("saved")
	return nil
}

// ImportImage generates the renditions of a local image and writes them to
// MediaDir.
func (s *Seeder) ImportImage(path string) (media.Media, error) {
	if s.MediaDir == "" {
		return media.Media{}, fmt.Errorf("import %s: no media directory configured", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return media.Media{}, err
	}
	defer f.Close()

	prefix := s.MediaURL
	if prefix == "" {
		prefix = media.DefaultPublicPrefix
	}
	m, files, err := media.GenerateVariants(f, filepath.Base(path), prefix)
	if err != nil {
		return media.Media{}, fmt.Errorf("import %s: %w", path, err)
	}
	if err := os.MkdirAll(s.MediaDir, 0o755); err != nil {
		return media.Media{}, err
	}
	for _, file := range files {
		if err := os.WriteFile(filepath.Join(s.MediaDir, file.Name), file.Data, 0o644); err != nil {
			return media.Media{}, err
		}
	}
	s.Log.Debug().Str("file", path).Int("renditions", len(files)).Msg("image imported")
	return m, nil
}
