package media

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRewritesStorageURL(t *testing.T) {
	ref := MediaRef(&Media{URL: "http://minio:9000/bucket/img.jpg"})
	if got := Resolve(ref, ""); got != "/media/img.jpg" {
		t.Errorf("Resolve() = %q, want %q", got, "/media/img.jpg")
	}
}

func TestResolveZeroRef(t *testing.T) {
	if got := Resolve(Ref{}, SizeThumbnail); got != "" {
		t.Errorf("Resolve(zero) = %q, want empty", got)
	}
	if got := DefaultResolver.ResolveMedia(nil, ""); got != "" {
		t.Errorf("ResolveMedia(nil) = %q, want empty", got)
	}
}

func TestResolveVariant(t *testing.T) {
	m := &Media{
		URL: "http://minio:9000/club/photo.jpg",
		Sizes: map[string]Size{
			SizeThumbnail:   {URL: "http://minio:9000/club/photo-400x300.jpg"},
			SizePlaceholder: {URL: ""},
		},
	}
	tests := []struct {
		variant string
		want    string
	}{
		{SizeThumbnail, "/media/photo-400x300.jpg"},
		{SizePlaceholder, "/media/photo.jpg"},
		{"missing", "/media/photo.jpg"},
		{"", "/media/photo.jpg"},
	}
	for _, tt := range tests {
		if got := Resolve(MediaRef(m), tt.variant); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.variant, got, tt.want)
		}
	}
}

func TestResolveLeavesOtherURLs(t *testing.T) {
	tests := []string{
		"/api/media/file/local.jpg",
		"https://cdn.example.com/bucket/img.jpg",
		"http://minio:9000",
	}
	for _, u := range tests {
		if got := Resolve(URLRef(u), ""); got != u {
			t.Errorf("Resolve(%q) = %q, want unchanged", u, got)
		}
	}
}

func TestResolverCustomHosts(t *testing.T) {
	r := NewResolver([]string{"https://s3.internal:9000/", "storage"}, "/files")
	assert.Equal(t, "/files/a/b.png", r.Resolve(URLRef("https://s3.internal:9000/media/a/b.png"), ""))
	assert.Equal(t, "/files/x.png", r.Resolve(URLRef("http://storage/bucket/x.png"), ""))
	assert.Equal(t, "http://other/bucket/x.png", r.Resolve(URLRef("http://other/bucket/x.png"), ""))
}

func TestRefUnmarshal(t *testing.T) {
	var doc struct {
		A Ref `json:"a"`
		B Ref `json:"b"`
		C Ref `json:"c"`
		D Ref `json:"d"`
		E Ref `json:"e"`
	}
	input := `{"a":null,"b":"http://minio:9000/b/x.jpg","c":42,"d":{"id":7,"url":"/x.jpg","sizes":{"thumbnail":{"url":"/t.jpg","width":400}}},"e":"abc123"}`
	require.NoError(t, json.Unmarshal([]byte(input), &doc))

	assert.True(t, doc.A.IsZero())
	assert.Equal(t, "http://minio:9000/b/x.jpg", doc.B.URL)
	assert.Equal(t, "42", doc.C.ID)
	assert.True(t, doc.C.IsZero())
	require.NotNil(t, doc.D.Media)
	assert.Equal(t, "7", doc.D.Media.ID)
	assert.Equal(t, "/t.jpg", Resolve(doc.D, SizeThumbnail))
	assert.Equal(t, "abc123", doc.E.ID)
	assert.Equal(t, "", Resolve(doc.E, ""))
}

func TestEmbedURL(t *testing.T) {
	want := "https://www.youtube.com/embed/dQw4w9WgXcQ"
	inputs := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?t=42",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
	}
	for _, in := range inputs {
		if got := EmbedURL(in); got != want {
			t.Errorf("EmbedURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEmbedURLVimeo(t *testing.T) {
	want := "https://player.vimeo.com/video/76979871"
	for _, in := range []string{"https://vimeo.com/76979871", "https://player.vimeo.com/video/76979871"} {
		if got := EmbedURL(in); got != want {
			t.Errorf("EmbedURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEmbedURLUnrecognized(t *testing.T) {
	for _, in := range []string{"", "https://example.com/video/1", "not a url"} {
		if got := EmbedURL(in); got != in {
			t.Errorf("EmbedURL(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestGenerateVariants(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	m, files, err := GenerateVariants(&buf, "Dojo Foto.PNG", "/media/")
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "/media/dojo-foto.jpg", m.URL)
	assert.Equal(t, 800, m.Width)
	assert.Equal(t, 600, m.Height)

	thumb := m.Sizes[SizeThumbnail]
	assert.Equal(t, 400, thumb.Width)
	assert.Equal(t, 300, thumb.Height)
	assert.Equal(t, "/media/dojo-foto-400x300.jpg", thumb.URL)

	ph := m.Sizes[SizePlaceholder]
	assert.Equal(t, 20, ph.Width)
	assert.Equal(t, 15, ph.Height)

	for _, f := range files {
		assert.NotEmpty(t, f.Data, f.Name)
	}
}

func TestGenerateVariantsInvalid(t *testing.T) {
	if _, _, err := GenerateVariants(bytes.NewReader([]byte("nope")), "x.png", "/media"); err == nil {
		t.Fatal("expected decode error")
	}
}
