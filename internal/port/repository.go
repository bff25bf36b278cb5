package port

import (
	"github.com/vertextoedge/photo-catalog/internal/domain/repository"
)

// CatalogRepository is an alias to domain repository interface
type CatalogRepository = repository.CatalogRepository

// ExportRepository is an alias to domain repository interface
type ExportRepository = repository.ExportRepository
