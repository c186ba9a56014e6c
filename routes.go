package clubsite

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4/middleware"
)

func (a *App) setupRoutes() error {
	e := a.Echo

	e.Static("/assets", a.Config.StaticDir)
	if err := a.setupMedia(); err != nil {
		return err
	}

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	api := e.Group("/api")
	api.GET("/pages/:collection", a.handleTeasers)
	api.GET("/pages/:collection/:id", a.handlePage, a.limiter.Middleware)
	api.GET("/pages/:collection/:id/html", a.handlePageHTML, a.limiter.Middleware)
	api.GET("/locale/:locale", a.handleLocale)
	if a.Analytics != nil {
		api.GET("/stats/crawlers", a.handleCrawlerStats)
	}

	for _, fn := range a.customRoutes {
		fn(a)
	}

	// Everything else gets the SPA shell; detail routes get preview metadata.
	e.GET("/*", a.Preview.Handle)
	return nil
}

// setupMedia serves /media either by proxying to object storage or from the
// local media directory.
func (a *App) setupMedia() error {
	if a.Config.StorageURL == "" {
		a.Echo.Static("/media", a.Config.MediaDir)
		return nil
	}
	target, err := url.Parse(a.Config.StorageURL)
	if err != nil {
		return fmt.Errorf("clubsite: storage url: %w", err)
	}
	rewrite := "/$1"
	if b := strings.Trim(a.Config.StorageBucket, "/"); b != "" {
		rewrite = "/" + b + "/$1"
	}
	a.Echo.Group("/media", middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{{URL: target}}),
		Rewrite:  map[string]string{"/media/*": rewrite},
	}))
	return nil
}
