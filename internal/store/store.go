package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"atelier/internal/config"
)

// Store manages workflow persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the tracking database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath connects to the database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Health aggregates workflow state counts for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	var health HealthSummary
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM orders`)
	if err := row.Scan(&health.Orders); err != nil {
		return health, fmt.Errorf("count orders: %w", err)
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM orders WHERE status = ?`, OrderInFactory)
	if err := row.Scan(&health.InFactory); err != nil {
		return health, fmt.Errorf("count in-factory orders: %w", err)
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM orders WHERE status = ?`, OrderCompleted)
	if err := row.Scan(&health.Completed); err != nil {
		return health, fmt.Errorf("count completed orders: %w", err)
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM tracking_entries WHERE status != ?`, EntryCompleted)
	if err := row.Scan(&health.OpenEntries); err != nil {
		return health, fmt.Errorf("count open entries: %w", err)
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM queue_entries`)
	if err := row.Scan(&health.QueuedEntries); err != nil {
		return health, fmt.Errorf("count queue entries: %w", err)
	}
	return health, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func nullableID(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
