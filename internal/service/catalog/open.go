package catalog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vertextoedge/photo-catalog/internal/adapter/filesystem"
	"github.com/vertextoedge/photo-catalog/internal/adapter/snapshot"
	"github.com/vertextoedge/photo-catalog/internal/domain"
	"github.com/vertextoedge/photo-catalog/internal/domain/event"
)

// Open creates a Store backed by the YAML snapshot at path
func Open(path string, cfg *Config, events event.EventDispatcher, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: catalog path is required", domain.ErrInvalidArgument)
	}

	repo, err := snapshot.NewYAMLRepository(path, filesystem.NewManager())
	if err != nil {
		return nil, err
	}
	return New(cfg, repo, events, logger)
}
