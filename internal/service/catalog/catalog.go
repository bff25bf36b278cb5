// Package catalog holds the photo catalog: the ordered in-memory records and
// the snapshot that backs them. Every successful mutation is saved before it
// returns; a failed save after Add is undone in memory.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/photo-catalog/internal/domain"
	"github.com/vertextoedge/photo-catalog/internal/domain/event"
	"github.com/vertextoedge/photo-catalog/internal/port"
)

// Config contains catalog store configuration
type Config struct {
	// RollbackFailedDelete puts a deleted record back when its save fails.
	// Off by default: a failed delete leaves memory ahead of the snapshot.
	RollbackFailedDelete bool
}

// DefaultConfig returns default catalog configuration
func DefaultConfig() *Config {
	return &Config{}
}

// Store is the catalog. All methods are safe for concurrent use; one coarse
// lock serialises them. Events are dispatched after the lock is released.
type Store struct {
	config *Config
	repo   port.CatalogRepository
	events event.EventDispatcher
	logger *zap.Logger

	mu     sync.RWMutex
	photos []domain.Photo
	report domain.LoadReport
}

// New creates a Store on top of repo and loads its snapshot.
// Loading never fails: an unusable snapshot yields an empty catalog and a
// warning in LoadReport.
func New(cfg *Config, repo port.CatalogRepository, events event.EventDispatcher, logger *zap.Logger) (*Store, error) {
	if repo == nil {
		return nil, fmt.Errorf("%w: catalog repository is required", domain.ErrInvalidArgument)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if events == nil {
		events = event.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		config: cfg,
		repo:   repo,
		events: events,
		logger: logger,
	}
	s.load()
	return s, nil
}

// load reads the snapshot into memory
func (s *Store) load() {
	path := s.repo.Location()
	photos, err := s.repo.Load()

	switch {
	case errors.Is(err, domain.ErrSnapshotMissing):
		s.photos = []domain.Photo{}
		s.report = domain.LoadReport{Path: path, State: domain.LoadFresh}
	case err != nil:
		s.photos = []domain.Photo{}
		s.report = domain.LoadReport{
			Path:    path,
			State:   domain.LoadDegraded,
			Warning: err.Error(),
		}
		s.logger.Warn("catalog could not be loaded, continuing with an empty catalog",
			zap.String("path", path),
			zap.Error(err))
		s.events.Dispatch(event.NewCatalogLoadDegraded(path, err.Error()))
		return
	case len(photos) == 0:
		s.photos = []domain.Photo{}
		s.report = domain.LoadReport{Path: path, State: domain.LoadEmpty}
	default:
		s.photos = photos
		s.report = domain.LoadReport{Path: path, State: domain.LoadRestored, Count: len(photos)}
	}

	s.events.Dispatch(event.NewCatalogLoaded(path, string(s.report.State), s.report.Count))
}

// LoadReport returns how the catalog was initialised
func (s *Store) LoadReport() domain.LoadReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Add appends photo and saves the catalog. A photo whose id is already in
// use is rejected. If the save fails the photo is removed again.
// The only error returned is domain.ErrInvalidArgument for a nil photo.
func (s *Store) Add(photo *domain.Photo) (domain.Outcome, error) {
	if photo == nil {
		return domain.Outcome{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, domain.ErrNilPhoto)
	}

	outcome, ev := s.add(*photo)
	s.publish(ev)
	return outcome, nil
}

func (s *Store) add(photo domain.Photo) (domain.Outcome, event.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(photo.ID) >= 0 {
		s.logger.Warn("photo id already in use", zap.Int("photo_id", photo.ID))
		return domain.DuplicateKey(photo.ID), nil
	}

	s.photos = append(s.photos, photo)

	if err := s.repo.Save(s.photos); err != nil {
		s.photos = s.photos[:len(s.photos)-1]
		ev := s.saveFailed("add", photo.ID, err, true)
		return domain.PersistenceFailed(
			fmt.Sprintf("photo %d was not added: catalog could not be saved", photo.ID), err), ev
	}

	return domain.Succeeded("photo %d added", photo.ID), event.NewPhotoAdded(photo.ID, photo.FileName)
}

// Delete removes the first photo with id and saves the catalog.
// When the save fails the removal stays in memory unless
// Config.RollbackFailedDelete is set.
func (s *Store) Delete(id int) domain.Outcome {
	outcome, ev := s.delete(id)
	s.publish(ev)
	return outcome
}

func (s *Store) delete(id int) (domain.Outcome, event.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Debug("photo to delete not found", zap.Int("photo_id", id))
		return domain.NotFound(id), nil
	}

	removed := s.photos[idx]
	s.photos = slices.Delete(s.photos, idx, idx+1)

	if err := s.repo.Save(s.photos); err != nil {
		rollback := s.config.RollbackFailedDelete
		if rollback {
			s.photos = slices.Insert(s.photos, idx, removed)
		} else {
			s.logger.Warn("photo removed in memory but not on disk",
				zap.Int("photo_id", id),
				zap.String("path", s.repo.Location()))
		}
		ev := s.saveFailed("delete", id, err, rollback)
		return domain.PersistenceFailed(
			fmt.Sprintf("photo %d deletion could not be saved", id), err), ev
	}

	return domain.Succeeded("photo %d deleted", id), event.NewPhotoDeleted(removed.ID, removed.FileName)
}

// saveFailed logs a failed save and returns the event describing it
func (s *Store) saveFailed(op string, id int, err error, rolledBack bool) event.DomainEvent {
	kind, _ := domain.PersistenceKindOf(err)
	s.logger.Error("failed to save catalog",
		zap.String("operation", op),
		zap.Int("photo_id", id),
		zap.String("kind", string(kind)),
		zap.Bool("rolled_back", rolledBack),
		zap.Error(err))
	return event.NewSnapshotSaveFailed(op, id, string(kind), err.Error(), rolledBack)
}

// publish dispatches ev outside the store lock, so handlers may call back
// into the store
func (s *Store) publish(ev event.DomainEvent) {
	if ev != nil {
		s.events.Dispatch(ev)
	}
}

// All returns a copy of every photo in catalog order
func (s *Store) All() []domain.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.photos)
}

// ByMinRating returns photos rated at least minRating, highest rating first.
// Photos with equal ratings keep catalog order.
func (s *Store) ByMinRating(minRating int) []domain.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Photo, 0, len(s.photos))
	for _, p := range s.photos {
		if p.Rating >= minRating {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Rating > result[j].Rating
	})
	return result
}

// TakenAfter returns photos taken strictly after t, oldest first
func (s *Store) TakenAfter(t time.Time) []domain.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Photo, 0, len(s.photos))
	for _, p := range s.photos {
		if p.TakenAfter(t) {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DateTaken.Before(result[j].DateTaken)
	})
	return result
}

// Count returns the number of photos
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.photos)
}

// Largest returns the photo with the biggest file size. On ties the first
// one in catalog order wins. ok is false for an empty catalog.
func (s *Store) Largest() (photo domain.Photo, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, p := range s.photos {
		if i == 0 || p.Size().Compare(photo.Size()) > 0 {
			photo = p
			ok = true
		}
	}
	return photo, ok
}

// NextAvailableID returns 1 for an empty catalog, max(id)+1 otherwise
func (s *Store) NextAvailableID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	maxID := 0
	for _, p := range s.photos {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

// Get returns the photo with id
func (s *Store) Get(id int) (domain.Photo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.photos[idx], true
	}
	return domain.Photo{}, false
}

// ExportTo copies the current catalog into exp
func (s *Store) ExportTo(exp port.ExportRepository) (int, error) {
	if exp == nil {
		return 0, fmt.Errorf("%w: export target is required", domain.ErrInvalidArgument)
	}

	snapshot := s.All()
	start := time.Now()

	n, err := exp.ReplaceAll(snapshot)
	if err != nil {
		s.logger.Error("catalog export failed",
			zap.String("destination", exp.Location()),
			zap.Error(err))
		return 0, fmt.Errorf("export to %s: %w", exp.Location(), err)
	}

	s.events.Dispatch(event.NewCatalogExported(exp.Location(), n, time.Since(start)))
	return n, nil
}

// indexOf returns the position of the first photo with id, or -1.
// Callers must hold s.mu.
func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.photos, func(p domain.Photo) bool {
		return p.ID == id
	})
}
