package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// tsLayout is fixed width so timestamps compare correctly as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

// Store persists crawler hits in their own SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens or creates the analytics database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create analytics dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS preview_hits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			crawler TEXT NOT NULL,
			path TEXT NOT NULL,
			document_id TEXT NOT NULL,
			injected INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_preview_hits_timestamp ON preview_hits(timestamp);
		CREATE INDEX IF NOT EXISTS idx_preview_hits_crawler ON preview_hits(crawler);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// currentSchemaVersion is the latest schema version. Increment when adding migrations.
const currentSchemaVersion = 1

func (s *Store) migrate() error {
	ctx := context.Background()
	verStr, err := s.GetSetting(ctx, "schema_version")
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	version := 0
	if verStr != "" {
		version, err = strconv.Atoi(verStr)
		if err != nil {
			return fmt.Errorf("parse schema version %q: %w", verStr, err)
		}
	}
	if version < currentSchemaVersion {
		version = currentSchemaVersion
	}
	return s.SetSetting(ctx, "schema_version", strconv.Itoa(version))
}

// GetSetting returns a setting value, or "" if it is not set.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

// SetSetting upserts a setting value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// SaveHit stores a crawler hit. A zero Timestamp means now.
func (s *Store) SaveHit(ctx context.Context, h Hit) error {
	ts := h.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	injected := 0
	if h.Injected {
		injected = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preview_hits (crawler, path, document_id, injected, timestamp) VALUES (?, ?, ?, ?, ?)`,
		h.Crawler, h.Path, h.DocumentID, injected, formatTime(ts))
	if err != nil {
		return fmt.Errorf("save hit: %w", err)
	}
	return nil
}

// GetStats aggregates the hits in [from, to).
func (s *Store) GetStats(ctx context.Context, from, to time.Time) (*Stats, error) {
	stats := &Stats{
		Period:    from.Format("2006-01-02") + " to " + to.Format("2006-01-02"),
		Crawlers:  []DimensionStat{},
		Documents: []DimensionStat{},
	}
	lo, hi := formatTime(from), formatTime(to)

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(injected), 0) FROM preview_hits WHERE timestamp >= ? AND timestamp < ?`,
		lo, hi).Scan(&stats.Total, &stats.Injected)
	if err != nil {
		return nil, fmt.Errorf("count hits: %w", err)
	}
	stats.Fallbacks = stats.Total - stats.Injected

	if stats.Crawlers, err = s.topBy(ctx, "crawler", lo, hi); err != nil {
		return nil, err
	}
	if stats.Documents, err = s.topBy(ctx, "document_id", lo, hi); err != nil {
		return nil, err
	}
	return stats, nil
}

// topBy groups hits by column. column is never user input.
func (s *Store) topBy(ctx context.Context, column, from, to string) ([]DimensionStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*) AS n FROM preview_hits
		 WHERE timestamp >= ? AND timestamp < ?
		 GROUP BY `+column+` ORDER BY n DESC, `+column+` LIMIT 10`, from, to)
	if err != nil {
		return nil, fmt.Errorf("top %s: %w", column, err)
	}
	defer rows.Close()
	out := []DimensionStat{}
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CleanupOldHits removes hits older than the retention period.
func (s *Store) CleanupOldHits(ctx context.Context, retentionDays int) error {
	cutoff := formatTime(s.now().AddDate(0, 0, -retentionDays))
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preview_hits WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup preview_hits: %w", err)
	}
	return nil
}

// StartCleanupScheduler runs periodic cleanup of old hits. Returns a stop function.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration, log zerolog.Logger) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := s.CleanupOldHits(context.Background(), retentionDays); err != nil {
					log.Warn().Err(err).Msg("analytics cleanup failed")
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
