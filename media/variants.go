package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth    = 1920
	thumbnailMaxSide = 400
	placeholderWidth = 20
	jpegQuality      = 80
	placeholderQual  = 40
)

// File is an encoded rendition ready to be written to storage.
type File struct {
	Name string
	Data []byte
}

// GenerateVariants decodes an image, bounds it to maxImageWidth and
// produces the thumbnail and placeholder renditions as JPEG. URLs in the
// returned Media are baseURL joined with the generated file names.
func GenerateVariants(src io.Reader, originalName, baseURL string) (Media, []File, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Media{}, nil, fmt.Errorf("decode image: %w", err)
	}

	base := slugifyFilename(originalName)
	if base == "" {
		base = "image"
	}
	baseURL = strings.TrimRight(baseURL, "/") + "/"

	canonical := fitWidth(img, maxImageWidth)
	data, err := encodeJPEG(canonical, jpegQuality)
	if err != nil {
		return Media{}, nil, err
	}
	name := base + ".jpg"
	b := canonical.Bounds()
	m := Media{
		URL:      baseURL + name,
		Alt:      base,
		Filename: name,
		MimeType: "image/jpeg",
		Width:    b.Dx(),
		Height:   b.Dy(),
		Sizes:    make(map[string]Size, 2),
	}
	files := []File{{Name: name, Data: data}}

	variants := []struct {
		name    string
		img     image.Image
		quality int
	}{
		{SizeThumbnail, fitBox(img, thumbnailMaxSide), jpegQuality},
		{SizePlaceholder, fitWidth(img, placeholderWidth), placeholderQual},
	}
	for _, v := range variants {
		data, err := encodeJPEG(v.img, v.quality)
		if err != nil {
			return Media{}, nil, err
		}
		vb := v.img.Bounds()
		vname := fmt.Sprintf("%s-%dx%d.jpg", base, vb.Dx(), vb.Dy())
		m.Sizes[v.name] = Size{
			URL:      baseURL + vname,
			Width:    vb.Dx(),
			Height:   vb.Dy(),
			MimeType: "image/jpeg",
			Filename: vname,
		}
		files = append(files, File{Name: vname, Data: data})
	}
	return m, files, nil
}

// fitWidth scales img down so it is at most w pixels wide.
func fitWidth(img image.Image, w int) image.Image {
	b := img.Bounds()
	if b.Dx() <= w {
		return img
	}
	h := b.Dy() * w / b.Dx()
	if h < 1 {
		h = 1
	}
	return scale(img, w, h)
}

// fitBox scales img down so neither side exceeds max.
func fitBox(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}
	if w >= h {
		h = h * max / w
		w = max
	} else {
		w = w * max / h
		h = max
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return scale(img, w, h)
}

func scale(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// slugifyFilename converts a file name (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.ToLower(strings.TrimSpace(base))
	var b strings.Builder
	prev := false
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
