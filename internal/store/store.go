package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quotemark/quotemark/internal/anchor"
)

// MaxMarksPerPage caps the persisted descriptor array per page. Saving more
// keeps the first MaxMarksPerPage entries in array order and drops the rest.
const MaxMarksPerPage = 300

// Repository is the persistence boundary for page marks and preferences.
//
// Design decision: The store is an explicit interface injected into the
// reconciler and engine rather than ambient package state. Every mutation
// goes through a whole-array Save under a single logical operation, which
// keeps interleaving writers coherent (last write wins).
type Repository interface {
	// Save replaces the stored descriptor array and stream fingerprint for
	// pageKey, enforcing MaxMarksPerPage. An empty array deletes the row.
	Save(ctx context.Context, pageKey string, descs []anchor.Descriptor, fingerprint string) error

	// Load returns the stored descriptor array for pageKey, empty when the
	// page has never been saved.
	Load(ctx context.Context, pageKey string) ([]anchor.Descriptor, error)

	// Fingerprint returns the stream fingerprint recorded by the last Save,
	// or "" when the page has never been saved.
	Fingerprint(ctx context.Context, pageKey string) (string, error)

	// Delete removes all stored data for pageKey.
	Delete(ctx context.Context, pageKey string) error

	// PageKeys lists every page key with stored marks.
	PageKeys(ctx context.Context) ([]string, error)

	// LoadPreferences returns the global preferences record, falling back
	// to defaults when none is stored.
	LoadPreferences(ctx context.Context) (anchor.Preferences, error)

	// SavePreferences replaces the global preferences record.
	SavePreferences(ctx context.Context, prefs anchor.Preferences) error

	// Close releases the underlying database.
	Close() error
}

// DB provides SQLite-backed storage for marks.
type DB struct {
	db     *sql.DB
	dbPath string
}

var _ Repository = (*DB)(nil)

// Options configures the database.
type Options struct {
	// CreateIfNotExists creates the database file and directory when absent.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{CreateIfNotExists: true, EnableWAL: true}
}

// Open opens or creates the mark database inside dbDir.
func Open(dbDir string, opts Options) (*DB, error) {
	dbPath := filepath.Join(dbDir, "quotemark.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer; a single pooled connection avoids
	// SQLITE_BUSY churn for this write-mostly workload.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	d := &DB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := d.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (d *DB) createTables() error {
	schema := `
	-- One row per page: the whole descriptor array as JSON plus the
	-- stream fingerprint recorded at save time.
	CREATE TABLE IF NOT EXISTS pages (
		page_key    TEXT PRIMARY KEY,
		descriptors TEXT NOT NULL,
		fingerprint TEXT NOT NULL DEFAULT '',
		updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Single global preferences record.
	CREATE TABLE IF NOT EXISTS preferences (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		last_color TEXT NOT NULL,
		recents    TEXT NOT NULL DEFAULT '[]'
	);
	`
	_, err := d.db.ExecContext(context.Background(), schema)
	return err
}

// Save replaces the stored array for pageKey. The array is truncated to
// MaxMarksPerPage before writing; an empty array deletes the row so absent
// and cleared pages are indistinguishable.
func (d *DB) Save(ctx context.Context, pageKey string, descs []anchor.Descriptor, fingerprint string) error {
	if len(descs) == 0 {
		return d.Delete(ctx, pageKey)
	}
	if len(descs) > MaxMarksPerPage {
		descs = descs[:MaxMarksPerPage]
	}

	payload, err := json.Marshal(descs)
	if err != nil {
		return fmt.Errorf("failed to serialize descriptors: %w", err)
	}

	query := `
	INSERT INTO pages (page_key, descriptors, fingerprint, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(page_key) DO UPDATE SET
		descriptors = excluded.descriptors,
		fingerprint = excluded.fingerprint,
		updated_at  = CURRENT_TIMESTAMP
	`
	if _, err := d.db.ExecContext(ctx, query, pageKey, string(payload), fingerprint); err != nil {
		return fmt.Errorf("failed to save page marks: %w", err)
	}
	return nil
}

// Load returns the stored array for pageKey, empty when absent.
func (d *DB) Load(ctx context.Context, pageKey string) ([]anchor.Descriptor, error) {
	var payload string
	err := d.db.QueryRowContext(ctx,
		`SELECT descriptors FROM pages WHERE page_key = ?`, pageKey).Scan(&payload)
	if err == sql.ErrNoRows {
		return []anchor.Descriptor{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load page marks: %w", err)
	}

	var descs []anchor.Descriptor
	if err := json.Unmarshal([]byte(payload), &descs); err != nil {
		return nil, fmt.Errorf("failed to parse stored descriptors: %w", err)
	}
	return descs, nil
}

// Fingerprint returns the stream fingerprint recorded by the last Save.
func (d *DB) Fingerprint(ctx context.Context, pageKey string) (string, error) {
	var fp string
	err := d.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM pages WHERE page_key = ?`, pageKey).Scan(&fp)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load fingerprint: %w", err)
	}
	return fp, nil
}

// Delete removes all stored data for pageKey.
func (d *DB) Delete(ctx context.Context, pageKey string) error {
	if _, err := d.db.ExecContext(ctx,
		`DELETE FROM pages WHERE page_key = ?`, pageKey); err != nil {
		return fmt.Errorf("failed to delete page marks: %w", err)
	}
	return nil
}

// PageKeys lists every page key with stored marks.
func (d *DB) PageKeys(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT page_key FROM pages ORDER BY page_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan page key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// LoadPreferences returns the global preferences record.
func (d *DB) LoadPreferences(ctx context.Context) (anchor.Preferences, error) {
	var (
		lastColor string
		recents   string
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT last_color, recents FROM preferences WHERE id = 1`).Scan(&lastColor, &recents)
	if err == sql.ErrNoRows {
		return anchor.DefaultPreferences(), nil
	}
	if err != nil {
		return anchor.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	prefs := anchor.Preferences{LastColor: lastColor}
	if recents != "" {
		if err := json.Unmarshal([]byte(recents), &prefs.Recents); err != nil {
			return anchor.Preferences{}, fmt.Errorf("failed to parse recent colors: %w", err)
		}
	}
	return prefs, nil
}

// SavePreferences replaces the global preferences record.
func (d *DB) SavePreferences(ctx context.Context, prefs anchor.Preferences) error {
	recents, err := json.Marshal(prefs.Recents)
	if err != nil {
		return fmt.Errorf("failed to serialize recent colors: %w", err)
	}

	query := `
	INSERT INTO preferences (id, last_color, recents)
	VALUES (1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		last_color = excluded.last_color,
		recents    = excluded.recents
	`
	if _, err := d.db.ExecContext(ctx, query, prefs.LastColor, string(recents)); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
