// Package media resolves media references stored in the CMS to public URLs.
//
// Media objects are plain data owned by the content store: a canonical URL
// plus named size variants. Resolution is pure and safe to call per render.
package media

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// Size variant names generated for every uploaded image.
const (
	SizeThumbnail   = "thumbnail"
	SizePlaceholder = "placeholder"
)

// Size is one pre-generated rendition of an image.
type Size struct {
	URL      string `json:"url"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Media is an image asset as returned by the content store.
type Media struct {
	ID       string          `json:"id,omitempty"`
	URL      string          `json:"url"`
	Alt      string          `json:"alt,omitempty"`
	Caption  string          `json:"caption,omitempty"`
	Filename string          `json:"filename,omitempty"`
	MimeType string          `json:"mimeType,omitempty"`
	Width    int             `json:"width,omitempty"`
	Height   int             `json:"height,omitempty"`
	Sizes    map[string]Size `json:"sizes,omitempty"`
}

// UnmarshalJSON accepts numeric or string IDs.
func (m *Media) UnmarshalJSON(data []byte) error {
	type plain Media
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Media(raw.plain)
	m.ID = rawID(raw.ID)
	return nil
}

// Ref is a reference to a media asset: a plain URL, a populated media
// object, or nothing. An unpopulated reference (a bare ID) resolves to "".
type Ref struct {
	URL   string
	Media *Media
	ID    string
}

// URLRef returns a Ref holding a plain URL.
func URLRef(u string) Ref {
	return Ref{URL: u}
}

// MediaRef returns a Ref holding a populated media object.
func MediaRef(m *Media) Ref {
	return Ref{Media: m}
}

// IsZero reports whether the reference carries nothing resolvable.
func (r Ref) IsZero() bool {
	return r.Media == nil && r.URL == ""
}

// UnmarshalJSON decodes null, a URL string, a numeric ID or a media object.
func (r *Ref) UnmarshalJSON(data []byte) error {
	*r = Ref{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if looksLikeURL(s) {
			r.URL = s
		} else {
			r.ID = s
		}
		return nil
	case '{':
		var m Media
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		r.Media = &m
		return nil
	default:
		r.ID = rawID(data)
		return nil
	}
}

// MarshalJSON writes the populated object, the URL or null.
func (r Ref) MarshalJSON() ([]byte, error) {
	switch {
	case r.Media != nil:
		return json.Marshal(r.Media)
	case r.URL != "":
		return json.Marshal(r.URL)
	case r.ID != "":
		return json.Marshal(r.ID)
	}
	return []byte("null"), nil
}

// Video is a video-embed record: a remote video page URL plus metadata.
type Video struct {
	ID          string `json:"id,omitempty"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts numeric or string IDs.
func (v *Video) UnmarshalJSON(data []byte) error {
	type plain Video
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Video(raw.plain)
	v.ID = rawID(raw.ID)
	return nil
}

var reURLish = regexp.MustCompile(`^(https?://|/)`)

func looksLikeURL(s string) bool {
	return reURLish.MatchString(strings.TrimSpace(s))
}

func rawID(data json.RawMessage) string {
	if len(data) == 0 || string(data) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(data))
}
