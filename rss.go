package clubsite

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shisei-sport/clubsite/content"
	"github.com/shisei-sport/clubsite/media"
	"github.com/shisei-sport/clubsite/richtext"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	PubDate     string        `xml:"pubDate,omitempty"`
	GUID        string        `xml:"guid"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int    `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

func (a *App) renderRSS(c echo.Context, docs []content.Document, locale string) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(docs))
	for _, d := range docs {
		link := AbsoluteURL(base, documentPath(d))
		item := rssItem{
			Title:       d.Title,
			Link:        link,
			Description: richtext.ExtractText(d.Body, descriptionLimit),
			GUID:        link,
		}
		if !d.PublishedAt.IsZero() {
			item.PubDate = d.PublishedAt.Format(time.RFC1123Z)
		}
		if img := a.Resolver.Resolve(d.Cover, media.SizeThumbnail); img != "" {
			item.Enclosure = &rssEnclosure{URL: AbsoluteURL(base, img), Type: imageType(img)}
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Language:    locale,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

func imageType(u string) string {
	switch l := strings.ToLower(u); {
	case strings.HasSuffix(l, ".png"):
		return "image/png"
	case strings.HasSuffix(l, ".webp"):
		return "image/webp"
	case strings.HasSuffix(l, ".gif"):
		return "image/gif"
	}
	return "image/jpeg"
}
