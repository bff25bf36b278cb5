package repository

import (
	"github.com/vertextoedge/photo-catalog/internal/domain"
)

// CatalogRepository persists the whole catalog as one snapshot
type CatalogRepository interface {
	// Load returns the records in the order they were last saved.
	// Returns domain.ErrSnapshotMissing if nothing was saved yet and an error
	// matching domain.ErrCorruptState if the snapshot cannot be read or parsed.
	Load() ([]domain.Photo, error)

	// Save replaces the snapshot with photos.
	// Failures match domain.ErrPersistence and carry a domain.PersistenceKind.
	Save(photos []domain.Photo) error

	// Location describes where the snapshot lives, for logging
	Location() string
}
