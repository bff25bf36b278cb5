package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vertextoedge/photo-catalog/internal/domain"
)

// ReplaceAll deletes every exported photo and inserts photos in one transaction
func (e *Exporter) ReplaceAll(photos []domain.Photo) (int, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin export: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM photos"); err != nil {
		return 0, fmt.Errorf("failed to clear photos: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO photos (
			id, position, file_name, description, date_taken, file_size_mb, rating
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range photos {
		_, err := stmt.Exec(
			p.ID, i, p.FileName, p.Description, p.DateTaken.UTC(), p.FileSizeMB, p.Rating,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert photo %d: %w", p.ID, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO meta (key, value, updated_at) VALUES ('exported_at', ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to record export time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit export: %w", err)
	}
	return len(photos), nil
}

// List returns exported photos in catalog order
func (e *Exporter) List() ([]domain.Photo, error) {
	rows, err := e.db.Query(`
		SELECT id, file_name, description, date_taken, file_size_mb, rating
		FROM photos
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPhotos(rows)
}

// Count returns the number of exported photos
func (e *Exporter) Count() (int, error) {
	var n int
	err := e.db.QueryRow("SELECT COUNT(*) FROM photos").Scan(&n)
	return n, err
}

// scanPhotos is a helper to scan multiple photo rows
func scanPhotos(rows *sql.Rows) ([]domain.Photo, error) {
	var photos []domain.Photo

	for rows.Next() {
		var p domain.Photo
		err := rows.Scan(&p.ID, &p.FileName, &p.Description, &p.DateTaken, &p.FileSizeMB, &p.Rating)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}

	return photos, rows.Err()
}
