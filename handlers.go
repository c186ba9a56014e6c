package clubsite

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/shisei-sport/clubsite/content"
	"github.com/shisei-sport/clubsite/media"
	"github.com/shisei-sport/clubsite/richtext"
)

const (
	teaserExcerptLimit = 100
	descriptionLimit   = 160
)

var collections = map[string]bool{
	content.CollectionNews:        true,
	content.CollectionInstructors: true,
	content.CollectionDocuments:   true,
	content.CollectionEvents:      true,
	content.CollectionGrades:      true,
}

func collectionParam(c echo.Context) (string, error) {
	col := c.Param("collection")
	if !collections[col] {
		return "", echo.NewHTTPError(http.StatusNotFound, "unknown collection")
	}
	return col, nil
}

func (a *App) handleTeasers(c echo.Context) error {
	col, err := collectionParam(c)
	if err != nil {
		return err
	}
	docs, err := a.Lists.ListDocuments(c.Request().Context(), col, a.Locale(c))
	if err != nil {
		return err
	}
	teasers := make([]Teaser, 0, len(docs))
	for _, d := range docs {
		teasers = append(teasers, a.teaser(d))
	}
	return c.JSON(http.StatusOK, teasers)
}

func (a *App) teaser(d content.Document) Teaser {
	return Teaser{
		ID:          d.ID,
		Title:       d.Title,
		Excerpt:     richtext.ExtractText(d.Body, teaserExcerptLimit),
		Thumbnail:   a.Resolver.Resolve(d.Cover, media.SizeThumbnail),
		Placeholder: a.Resolver.Resolve(d.Cover, media.SizePlaceholder),
		URL:         documentPath(d),
		PublishedAt: d.PublishedAt,
	}
}

func (a *App) document(c echo.Context) (*content.Document, error) {
	col, err := collectionParam(c)
	if err != nil {
		return nil, err
	}
	doc, err := a.Docs.GetDocument(c.Request().Context(), col, c.Param("id"), a.Locale(c))
	if errors.Is(err, content.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	return doc, err
}

func (a *App) handlePage(c echo.Context) error {
	doc, err := a.document(c)
	if err != nil {
		return err
	}
	description := richtext.ExtractText(doc.Body, descriptionLimit)
	image := a.Resolver.Resolve(doc.Cover, media.SizeThumbnail)
	return c.JSON(http.StatusOK, Page{
		ID:          doc.ID,
		Collection:  doc.Collection,
		Locale:      doc.Locale,
		Title:       doc.Title,
		Description: description,
		Image:       image,
		HTML:        richtext.RenderHTML(doc.Body, richtext.WithResolver(a.Resolver)),
		URL:         documentPath(*doc),
		JSONLD:      ArticleJsonLD(*doc, description, image, a.Config),
		PublishedAt: doc.PublishedAt,
	})
}

// handlePageHTML returns only the rendered body, for hydration-free embeds.
func (a *App) handlePageHTML(c echo.Context) error {
	doc, err := a.document(c)
	if err != nil {
		return err
	}
	return Render(c, Article(doc.Locale, richtext.Render(doc.Body, richtext.WithResolver(a.Resolver))))
}

func (a *App) handleLocale(c echo.Context) error {
	l := c.Param("locale")
	if !a.Config.HasLocale(l) {
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported locale")
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[localeKey] = l
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"locale": l})
}

func (a *App) handleSitemap(c echo.Context) error {
	var docs []content.Document
	for _, col := range []string{content.CollectionNews, content.CollectionEvents, content.CollectionInstructors} {
		list, err := a.Lists.ListDocuments(c.Request().Context(), col, a.Config.DefaultLocale)
		if err != nil {
			return err
		}
		docs = append(docs, list...)
	}
	return a.renderSitemap(c, docs)
}

func (a *App) handleFeed(c echo.Context) error {
	locale := a.Locale(c)
	docs, err := a.Lists.ListDocuments(c.Request().Context(), content.CollectionNews, locale)
	if err != nil {
		return err
	}
	return a.renderRSS(c, docs, locale)
}

// handleCrawlerStats reports crawler hits on preview routes for the last
// ?days (default 30, at most 365).
func (a *App) handleCrawlerStats(c echo.Context) error {
	days := 30
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be between 1 and 365")
		}
		days = n
	}
	to := time.Now()
	stats, err := a.Analytics.GetStats(c.Request().Context(), to.AddDate(0, 0, -days), to.Add(time.Second))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		a.Log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		msg = http.StatusText(code)
	}
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = c.JSON(code, apiError{Error: msg})
		return
	}
	_ = c.String(code, msg)
}
