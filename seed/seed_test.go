package seed

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shisei-sport/clubsite/content"
	"github.com/shisei-sport/clubsite/richtext"
)

type memSaver struct {
	drafts []content.Draft
}

func (m *memSaver) SaveDocument(_ context.Context, d content.Draft) error {
	m.drafts = append(m.drafts, d)
	return nil
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{200, 0, 0, 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

const seedYAML = `
- collection: news
  id: gradatie
  locale: nl
  title: Gradatie-examens
  publishedAt: 2026-06-01T09:00:00Z
  image: dojo.png
  body:
    root:
      type: root
      children:
        - type: paragraph
          children:
            - type: text
              text: Examens voor de gele en oranje band.
              format: 1
- collection: events
  id: open-dag
  locale: nl
  title: Open dag
  markdown: |
    ## Open dag

    Kom **gratis** meedoen met een training.

    - judo
    - jiu-jitsu
- collection: documents
  id: huisregels
  locale: nl
  title: Huisregels
  draft: true
  cover: /media/regels.jpg
  body:
    - type: paragraph
      children:
        - {type: text, text: Geen sieraden op de mat.}
`

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))

	entries, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, filepath.Join(dir, "dojo.png"), entries[0].Image)
	assert.Equal(t, 2026, entries[0].PublishedAt.Year())
	assert.Contains(t, entries[1].Markdown, "**gratis**")
	assert.True(t, entries[2].Draft)

	doc := richtext.FromValue(richtext.Normalize(entries[0].Body))
	assert.Equal(t, "Examens voor de gele en oranje band.", richtext.PlainText(doc))
	assert.Equal(t, "<p><strong>Examens voor de gele en oranje band.</strong></p>", richtext.RenderHTML(doc))
}

func TestLoadFileUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: x\n  titel: fout\n"), 0o644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestRunWithEntries(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "dojo.png"), 800, 600)
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))
	entries, err := LoadFile(path)
	require.NoError(t, err)

	saver := &memSaver{}
	mediaDir := filepath.Join(dir, "media")
	s := &Seeder{Store: saver, MediaDir: mediaDir, Log: zerolog.Nop()}
	n, err := s.Run(context.Background(), entries)
	require.NoError(t, err)

	demo := len(Demo(time.Now()))
	assert.Equal(t, demo+3, n)
	require.Len(t, saver.drafts, demo+3)

	grad := saver.drafts[demo]
	assert.Equal(t, "gradatie", grad.Slug)
	assert.True(t, grad.Published)
	require.NotNil(t, grad.Cover.Media)
	assert.Equal(t, "/media/dojo.jpg", grad.Cover.Media.URL)
	assert.Equal(t, "/media/dojo-400x300.jpg", grad.Cover.Media.Sizes["thumbnail"].URL)
	for _, name := range []string{"dojo.jpg", "dojo-400x300.jpg", "dojo-20x15.jpg"} {
		_, err := os.Stat(filepath.Join(mediaDir, name))
		assert.NoError(t, err, name)
	}

	openDay := saver.drafts[demo+1]
	html := richtext.RenderHTML(richtext.FromValue(richtext.Normalize(openDay.Body)))
	assert.Equal(t, "<h2>Open dag</h2><p>Kom <strong>gratis</strong> meedoen met een training.</p><ul><li>judo</li><li>jiu-jitsu</li></ul>", html)

	rules := saver.drafts[demo+2]
	assert.False(t, rules.Published)
	assert.Equal(t, "/media/regels.jpg", rules.Cover.URL)
}

func TestImportImageWithoutMediaDir(t *testing.T) {
	s := &Seeder{Store: &memSaver{}, Log: zerolog.Nop()}
	_, err := s.ImportImage("dojo.png")
	assert.Error(t, err)
}

func TestDemoIntoStore(t *testing.T) {
	store, err := content.NewStore(filepath.Join(t.TempDir(), "club.db"))
	require.NoError(t, err)
	defer store.Close()

	s := &Seeder{Store: store, Log: zerolog.Nop()}
	_, err = s.Run(context.Background(), nil)
	require.NoError(t, err)

	doc, err := store.GetDocument(context.Background(), content.CollectionNews, "clubkampioenschap", "nl")
	require.NoError(t, err)
	assert.Equal(t, "Clubkampioenschap", doc.Title)
	html := richtext.RenderHTML(doc.Body)
	assert.Contains(t, html, "<strong>clubkampioen</strong>")
	assert.Contains(t, html, `<ol><li>09:00 weging</li>`)

	news, err := store.ListDocuments(context.Background(), content.CollectionNews, "nl")
	require.NoError(t, err)
	require.Len(t, news, 2)
	assert.Equal(t, "clubkampioenschap", news[0].ID)
}
