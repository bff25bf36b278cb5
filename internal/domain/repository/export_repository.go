package repository

import (
	"github.com/vertextoedge/photo-catalog/internal/domain"
)

// ExportRepository receives a copy of the catalog
type ExportRepository interface {
	// ReplaceAll discards previously exported records and writes photos in order
	ReplaceAll(photos []domain.Photo) (int, error)

	// Location describes the export target, for logging
	Location() string

	// Close releases the target
	Close() error
}
