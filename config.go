package clubsite

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	yaml "gopkg.in/yaml.v3"

	"github.com/shisei-sport/clubsite/content"
	"github.com/shisei-sport/clubsite/media"
	"github.com/shisei-sport/clubsite/payload"
)

// SiteConfig holds all configuration for the club site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name, also the title suffix (default "Shi-Sei Sport")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS

	Addr         string `yaml:"addr"`         // Listen address (default ":3000")
	DatabasePath string `yaml:"databasePath"` // SQLite path (default "data/club.db")

	// When CMSURL is set documents are read from the CMS, otherwise from
	// the local SQLite store.
	CMSURL     string `yaml:"cmsURL"`
	TitleField string `yaml:"titleField"`
	BodyField  string `yaml:"bodyField"`
	CoverField string `yaml:"coverField"`

	TemplatePath      string `yaml:"templatePath"`      // SPA shell (default "public/index.html")
	StaticDir         string `yaml:"staticDir"`         // served under /assets (default "public/assets")
	PreviewPrefix     string `yaml:"previewPrefix"`     // detail route with injected previews (default "/news")
	PreviewCollection string `yaml:"previewCollection"` // collection behind PreviewPrefix (default "news")

	MediaDir      string   `yaml:"mediaDir"`      // local media renditions (default "data/media")
	StorageURL    string   `yaml:"storageURL"`    // object storage origin proxied under /media
	StorageBucket string   `yaml:"storageBucket"` // bucket prepended to proxied paths
	StorageHosts  []string `yaml:"storageHosts"`  // hosts rewritten to /media/ (default "minio:9000")

	DefaultLocale string   `yaml:"defaultLocale"` // default "nl"
	Locales       []string `yaml:"locales"`       // default ["nl", "en"]

	SessionSecret string `yaml:"sessionSecret"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookieSecure"`  // Set true for HTTPS

	ListCacheTTL time.Duration `yaml:"listCacheTTL"` // listing cache TTL (default 5min)
	APIRateLimit int           `yaml:"apiRateLimit"` // uncached requests per IP per minute (default 120)
	LogLevel     string        `yaml:"logLevel"`     // zerolog level (default "info")

	AnalyticsEnabled       bool   `yaml:"analyticsEnabled"`       // record crawler hits on preview routes
	AnalyticsDatabasePath  string `yaml:"analyticsDatabasePath"`  // default "data/analytics.db"
	AnalyticsRetentionDays int    `yaml:"analyticsRetentionDays"` // default 90
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Shi-Sei Sport"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/club.db"
	}
	if c.TemplatePath == "" {
		c.TemplatePath = "public/index.html"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public/assets"
	}
	if c.PreviewPrefix == "" {
		c.PreviewPrefix = "/" + content.CollectionNews
	}
	if c.PreviewCollection == "" {
		c.PreviewCollection = content.CollectionNews
	}
	if c.MediaDir == "" {
		c.MediaDir = "data/media"
	}
	if len(c.StorageHosts) == 0 {
		c.StorageHosts = []string{"minio:9000"}
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = "nl"
	}
	if len(c.Locales) == 0 {
		c.Locales = []string{"nl", "en"}
	}
	if c.ListCacheTTL == 0 {
		c.ListCacheTTL = 5 * time.Minute
	}
	if c.APIRateLimit == 0 {
		c.APIRateLimit = 120
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.AnalyticsRetentionDays <= 0 {
		c.AnalyticsRetentionDays = 90
	}
	if c.TitleField == "" {
		c.TitleField = payload.DefaultTitleField
	}
	if c.BodyField == "" {
		c.BodyField = payload.DefaultBodyField
	}
	if c.CoverField == "" {
		c.CoverField = payload.DefaultCoverField
	}
}

// Level returns the configured zerolog level, falling back to info.
func (c SiteConfig) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Resolver returns the media resolver for the configured storage hosts.
func (c SiteConfig) Resolver() *media.Resolver {
	return media.NewResolver(c.StorageHosts, media.DefaultPublicPrefix)
}

// HasLocale reports whether l is one of the configured locales.
func (c SiteConfig) HasLocale(l string) bool {
	for _, v := range c.Locales {
		if v == l {
			return true
		}
	}
	return false
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (SiteConfig, error) {
	var cfg SiteConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the CLUB_* environment variables that are set.
func ApplyEnv(cfg *SiteConfig) error {
	str := map[string]*string{
		"CLUB_NAME":           &cfg.Name,
		"CLUB_URL":            &cfg.URL,
		"CLUB_DESCRIPTION":    &cfg.Description,
		"CLUB_ADDR":           &cfg.Addr,
		"CLUB_DATABASE_PATH":  &cfg.DatabasePath,
		"CLUB_CMS_URL":        &cfg.CMSURL,
		"CLUB_TEMPLATE_PATH":  &cfg.TemplatePath,
		"CLUB_STATIC_DIR":     &cfg.StaticDir,
		"CLUB_MEDIA_DIR":      &cfg.MediaDir,
		"CLUB_STORAGE_URL":    &cfg.StorageURL,
		"CLUB_STORAGE_BUCKET": &cfg.StorageBucket,
		"CLUB_DEFAULT_LOCALE": &cfg.DefaultLocale,
		"CLUB_SESSION_SECRET": &cfg.SessionSecret,
		"CLUB_LOG_LEVEL":      &cfg.LogLevel,

		"CLUB_ANALYTICS_DATABASE_PATH": &cfg.AnalyticsDatabasePath,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("CLUB_STORAGE_HOSTS"); v != "" {
		cfg.StorageHosts = FilterEmpty(strings.Split(v, ","))
	}
	if v := os.Getenv("CLUB_LOCALES"); v != "" {
		cfg.Locales = FilterEmpty(strings.Split(v, ","))
	}
	if v := os.Getenv("CLUB_COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CLUB_COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}
	if v := os.Getenv("CLUB_ANALYTICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CLUB_ANALYTICS_ENABLED: %w", err)
		}
		cfg.AnalyticsEnabled = b
	}
	if v := os.Getenv("CLUB_API_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLUB_API_RATE_LIMIT: %w", err)
		}
		cfg.APIRateLimit = n
	}
	if v := os.Getenv("CLUB_LIST_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CLUB_LIST_CACHE_TTL: %w", err)
		}
		cfg.ListCacheTTL = d
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs before the catch-all preview route is added.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithSource replaces the document source chosen from the configuration.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithTemplate supplies the SPA shell instead of reading TemplatePath.
func WithTemplate(tpl []byte) Option {
	return func(a *App) {
		a.template = tpl
	}
}

// WithLogger sets the application logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}
