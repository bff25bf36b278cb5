// Package sqlite writes catalog exports into a SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vertextoedge/photo-catalog/internal/port"
)

// connPragmas are applied by the driver to every new connection
var connPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(DELETE)",
	"synchronous(FULL)",
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS photos (
		id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		file_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date_taken TIMESTAMP NOT NULL,
		file_size_mb REAL NOT NULL DEFAULT 0,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_photos_position ON photos(position)`,
	`CREATE INDEX IF NOT EXISTS idx_photos_rating ON photos(rating)`,
	`CREATE INDEX IF NOT EXISTS idx_photos_date_taken ON photos(date_taken)`,
	`CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Exporter implements port.ExportRepository using SQLite
type Exporter struct {
	db   *sql.DB
	path string
}

var _ port.ExportRepository = (*Exporter)(nil)

// Open opens the export database at dbPath, creating the file, its
// directory and the schema when missing
func Open(dbPath string) (*Exporter, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("export database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: the export transaction and later reads share a handle
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w\nSQL: %s", err, stmt)
		}
	}

	return &Exporter{db: db, path: dbPath}, nil
}

func dsn(path string) string {
	params := make([]string, len(connPragmas))
	for i, p := range connPragmas {
		params[i] = "_pragma=" + p
	}
	return path + "?" + strings.Join(params, "&")
}

// Close closes the database connection
func (e *Exporter) Close() error {
	return e.db.Close()
}

// Ping checks database connectivity
func (e *Exporter) Ping() error {
	return e.db.Ping()
}

// Location returns the database path
func (e *Exporter) Location() string {
	return e.path
}
