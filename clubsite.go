// Package clubsite serves the club website: the SPA shell with social-preview
// metadata, a JSON API over the club's rich-text documents, RSS, sitemap and
// media.
//
// Documents come from the headless CMS when CMSURL is configured and from the
// local SQLite store otherwise.
package clubsite

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shisei-sport/clubsite/analytics"
	"github.com/shisei-sport/clubsite/content"
	"github.com/shisei-sport/clubsite/media"
	"github.com/shisei-sport/clubsite/payload"
	"github.com/shisei-sport/clubsite/preview"
)

// App is the central application. It wires together the document source,
// cache, preview service, handlers and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Log      zerolog.Logger
	Store    *content.Store // nil when documents come from the CMS
	Docs     content.Source
	Lists    *content.ListCache
	Preview  *preview.Service
	Resolver *media.Resolver

	// Analytics records crawler hits on preview routes. Nil unless
	// AnalyticsEnabled is set.
	Analytics *analytics.Store

	stopCleanup  func()
	limiter      *RequestLimiter
	customRoutes []func(*App)
	source       content.Source
	template     []byte
	ready        bool
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Log:    zerolog.New(os.Stderr).With().Timestamp().Logger().Level(cfg.Level()),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the document source, loads the SPA shell and registers
// middleware and routes. Start calls it; tests call it directly.
func (a *App) Init() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return errors.New("clubsite: SessionSecret is required")
	}

	switch {
	case a.source != nil:
		a.Docs = a.source
	case a.Config.CMSURL != "":
		c := payload.NewClient(a.Config.CMSURL)
		c.TitleField = a.Config.TitleField
		c.BodyField = a.Config.BodyField
		c.CoverField = a.Config.CoverField
		c.UserAgent = a.Config.Name
		a.Docs = c
	default:
		store, err := content.NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("clubsite: init store: %w", err)
		}
		a.Store = store
		a.Docs = store
	}

	tpl := a.template
	if tpl == nil {
		b, err := preview.LoadTemplate(a.Config.TemplatePath)
		if err != nil {
			return fmt.Errorf("clubsite: %w", err)
		}
		tpl = b
	}

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("clubsite: init analytics: %w", err)
		}
		a.Analytics = store
		a.stopCleanup = store.StartCleanupScheduler(a.Config.AnalyticsRetentionDays, 24*time.Hour, a.Log)
	}

	a.Resolver = a.Config.Resolver()
	a.Lists = content.NewListCache(a.Docs, a.Config.ListCacheTTL)
	a.limiter = NewRequestLimiter(a.Config.APIRateLimit, time.Minute)
	a.Preview = preview.New(preview.Config{
		Template:      tpl,
		SiteName:      a.Config.Name,
		RoutePrefix:   a.Config.PreviewPrefix,
		Collection:    a.Config.PreviewCollection,
		DefaultLocale: a.Config.DefaultLocale,
		OnServe:       a.recordCrawlerHit,
	}, a.Docs, a.Resolver, a.Log)

	a.setupMiddleware()
	if err := a.setupRoutes(); err != nil {
		return err
	}
	a.ready = true
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Log.Info().Str("addr", a.Config.Addr).Str("source", a.sourceName()).Msg("starting server")
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	var errs []error
	if a.Analytics != nil {
		errs = append(errs, a.Analytics.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

// recordCrawlerHit stores preview requests made by crawlers. Failures are
// logged and never affect the response.
func (a *App) recordCrawlerHit(r *http.Request, id string, injected bool) {
	if a.Analytics == nil {
		return
	}
	name := analytics.CrawlerName(r.UserAgent())
	if name == "" {
		return
	}
	hit := analytics.Hit{Crawler: name, Path: r.URL.Path, DocumentID: id, Injected: injected}
	if err := a.Analytics.SaveHit(r.Context(), hit); err != nil {
		a.Log.Warn().Err(err).Str("crawler", name).Str("id", id).Msg("record crawler hit")
	}
}

func (a *App) sourceName() string {
	switch {
	case a.source != nil:
		return "custom"
	case a.Store != nil:
		return "sqlite"
	}
	return "cms"
}
