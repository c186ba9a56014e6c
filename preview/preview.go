// Package preview serves the single-page app shell with social-preview
// metadata injected for content detail pages.
//
// The shell is loaded once and never modified; each request derives its own
// copy. Any failure while building the metadata falls back to the unmodified
// shell, so the handler always answers 200.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shisei-sport/clubsite/content"
	"github.com/shisei-sport/clubsite/media"
	"github.com/shisei-sport/clubsite/richtext"
)

const (
	contentTypeHTML         = "text/html; charset=utf-8"
	DefaultDescriptionLimit = 160
	DefaultPageType         = "article"
)

// Config configures a Service.
type Config struct {
	Template         []byte
	SiteName         string
	RoutePrefix      string // e.g. "/news"
	Collection       string // e.g. "news"
	DefaultLocale    string
	DescriptionLimit int
	ImageVariant     string

	// OnServe, if set, is called for every detail route after the
	// response body is chosen.
	OnServe func(r *http.Request, id string, injected bool)
}

func (c *Config) setDefaults() {
	if c.DescriptionLimit <= 0 {
		c.DescriptionLimit = DefaultDescriptionLimit
	}
	if c.ImageVariant == "" {
		c.ImageVariant = media.SizeThumbnail
	}
	c.RoutePrefix = "/" + strings.Trim(c.RoutePrefix, "/")
	if c.Collection == "" {
		c.Collection = strings.Trim(c.RoutePrefix, "/")
	}
}

// Request identifies the document a preview is built for.
type Request struct {
	ID     string
	Locale string
	Path   string
	Origin string // scheme://host, no trailing slash
}

// Meta holds the values injected into the shell.
type Meta struct {
	Title       string
	Description string
	Image       string
	URL         string
	Type        string
}

// Service is the social-preview injection handler.
type Service struct {
	cfg      Config
	route    *regexp.Regexp
	docs     content.Reader
	resolver *media.Resolver
	log      zerolog.Logger
}

// New creates a Service. A nil resolver uses media.DefaultResolver.
func New(cfg Config, docs content.Reader, resolver *media.Resolver, log zerolog.Logger) *Service {
	cfg.setDefaults()
	if resolver == nil {
		resolver = media.DefaultResolver
	}
	return &Service{
		cfg:      cfg,
		route:    regexp.MustCompile(`^` + regexp.QuoteMeta(cfg.RoutePrefix) + `/([^/]+)/?$`),
		docs:     docs,
		resolver: resolver,
		log:      log.With().Str("component", "preview").Logger(),
	}
}

// LoadTemplate reads the shell from disk.
func LoadTemplate(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preview: load template: %w", err)
	}
	return b, nil
}

// Template returns a copy of the default shell.
func (s *Service) Template() []byte {
	return append([]byte(nil), s.cfg.Template...)
}

// Match reports whether path is a detail route and returns its id.
func (s *Service) Match(path string) (string, bool) {
	m := s.route.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	id, err := url.PathUnescape(m[1])
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// Build fetches the document and computes its preview metadata.
func (s *Service) Build(ctx context.Context, req Request) (Meta, error) {
	locale := req.Locale
	if locale == "" {
		locale = s.cfg.DefaultLocale
	}
	doc, err := s.docs.GetDocument(ctx, s.cfg.Collection, req.ID, locale)
	if err != nil {
		return Meta{}, err
	}
	if doc == nil || strings.TrimSpace(doc.Title) == "" {
		return Meta{}, errors.New("preview: document has no title")
	}

	m := Meta{
		Title:       doc.Title,
		Description: richtext.ExtractText(doc.Body, s.cfg.DescriptionLimit),
		URL:         req.Origin + req.Path,
		Type:        DefaultPageType,
	}
	if s.cfg.SiteName != "" {
		m.Title += " | " + s.cfg.SiteName
	}
	if req.Locale != "" {
		m.URL += "?locale=" + url.QueryEscape(req.Locale)
	}
	if img := s.resolver.Resolve(doc.Cover, s.cfg.ImageVariant); img != "" {
		m.Image = absolute(req.Origin, img)
	}
	return m, nil
}

// Respond computes the response body for r. The second result reports
// whether metadata was injected.
func (s *Service) Respond(r *http.Request) ([]byte, bool) {
	id, ok := s.Match(r.URL.Path)
	if !ok {
		return s.cfg.Template, false
	}
	req := Request{
		ID:     id,
		Locale: r.URL.Query().Get("locale"),
		Path:   r.URL.Path,
		Origin: Origin(r),
	}
	meta, err := s.Build(r.Context(), req)
	if err != nil {
		ev := s.log.Warn()
		if errors.Is(err, content.ErrNotFound) {
			ev = s.log.Info()
		}
		ev.Err(err).
			Str("collection", s.cfg.Collection).
			Str("id", req.ID).
			Str("locale", req.Locale).
			Msg("serving default shell")
		s.served(r, id, false)
		return s.cfg.Template, false
	}
	s.served(r, id, true)
	return Inject(s.cfg.Template, meta), true
}

func (s *Service) served(r *http.Request, id string, injected bool) {
	if s.cfg.OnServe != nil {
		s.cfg.OnServe(r, id, injected)
	}
}

// Handle is the echo handler. It never returns an error.
func (s *Service) Handle(c echo.Context) error {
	body, injected := s.Respond(c.Request())
	if injected {
		c.Response().Header().Set("Cache-Control", "no-cache")
	}
	return c.Blob(http.StatusOK, contentTypeHTML, body)
}

// ServeHTTP implements http.Handler.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, injected := s.Respond(r)
	w.Header().Set("Content-Type", contentTypeHTML)
	if injected {
		w.Header().Set("Cache-Control", "no-cache")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Origin derives the public origin of r from the forwarding headers,
// falling back to the request itself.
func Origin(r *http.Request) string {
	scheme := firstValue(r.Header.Get("X-Forwarded-Proto"))
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	host := firstValue(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = r.Host
	}
	return scheme + "://" + host
}

func firstValue(h string) string {
	if i := strings.IndexByte(h, ','); i >= 0 {
		h = h[:i]
	}
	return strings.TrimSpace(h)
}

func absolute(origin, u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if strings.HasPrefix(u, "//") {
		return strings.SplitN(origin, ":", 2)[0] + ":" + u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return origin + u
}
