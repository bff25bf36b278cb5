package event

import (
	"sync"

	"go.uber.org/zap"
)

// LoggingHandler logs all events
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Handle logs the event
func (h *LoggingHandler) Handle(event DomainEvent) error {
	switch e := event.(type) {
	case PhotoAdded:
		h.logger.Info("photo added",
			zap.Int("photo_id", e.PhotoID),
			zap.String("file_name", e.FileName),
		)
	case PhotoDeleted:
		h.logger.Info("photo deleted",
			zap.Int("photo_id", e.PhotoID),
			zap.String("file_name", e.FileName),
		)
	case SnapshotSaveFailed:
		h.logger.Error("catalog snapshot save failed",
			zap.String("operation", e.Operation),
			zap.Int("photo_id", e.PhotoID),
			zap.String("kind", e.Kind),
			zap.String("error", e.Error),
			zap.Bool("rolled_back", e.RolledBack),
		)
	case CatalogLoaded:
		h.logger.Info("catalog loaded",
			zap.String("path", e.Path),
			zap.String("state", e.State),
			zap.Int("count", e.Count),
		)
	case CatalogLoadDegraded:
		h.logger.Warn("catalog file unusable, starting with an empty catalog",
			zap.String("path", e.Path),
			zap.String("reason", e.Reason),
		)
	case CatalogExported:
		h.logger.Info("catalog exported",
			zap.String("destination", e.Destination),
			zap.Int("count", e.Count),
			zap.Duration("duration", e.Duration),
		)
	default:
		h.logger.Debug("domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *LoggingHandler) HandledEvents() []string {
	return []string{AllEvents}
}

// StatsHandler counts catalog activity for the session summary
type StatsHandler struct {
	mu           sync.Mutex
	added        int64
	deleted      int64
	saveFailures int64
	rolledBack   int64
	exports      int64
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler() *StatsHandler {
	return &StatsHandler{}
}

// Handle updates counters based on the event
func (h *StatsHandler) Handle(event DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch e := event.(type) {
	case PhotoAdded:
		h.added++
	case PhotoDeleted:
		h.deleted++
	case SnapshotSaveFailed:
		h.saveFailures++
		if e.RolledBack {
			h.rolledBack++
		}
	case CatalogExported:
		h.exports++
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *StatsHandler) HandledEvents() []string {
	return []string{
		NamePhotoAdded,
		NamePhotoDeleted,
		NameSnapshotSaveFailed,
		NameCatalogExported,
	}
}

// GetStats returns current counters
func (h *StatsHandler) GetStats() map[string]int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	return map[string]int64{
		"photos_added":   h.added,
		"photos_deleted": h.deleted,
		"save_failures":  h.saveFailures,
		"rolled_back":    h.rolledBack,
		"exports":        h.exports,
	}
}
