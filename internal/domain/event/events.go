package event

import (
	"time"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	// EventName returns the name of the event
	EventName() string
	// OccurredAt returns when the event occurred
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

const (
	NamePhotoAdded          = "photo.added"
	NamePhotoDeleted        = "photo.deleted"
	NameSnapshotSaveFailed  = "snapshot.save_failed"
	NameCatalogLoaded       = "catalog.loaded"
	NameCatalogLoadDegraded = "catalog.load_degraded"
	NameCatalogExported     = "catalog.exported"
)

// PhotoAdded is raised when a record was appended and saved
type PhotoAdded struct {
	BaseEvent
	PhotoID  int
	FileName string
}

// EventName returns the event name
func (e PhotoAdded) EventName() string {
	return NamePhotoAdded
}

// NewPhotoAdded creates a new PhotoAdded event
func NewPhotoAdded(photoID int, fileName string) PhotoAdded {
	return PhotoAdded{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		PhotoID:   photoID,
		FileName:  fileName,
	}
}

// PhotoDeleted is raised when a record was removed and saved
type PhotoDeleted struct {
	BaseEvent
	PhotoID  int
	FileName string
}

// EventName returns the event name
func (e PhotoDeleted) EventName() string {
	return NamePhotoDeleted
}

// NewPhotoDeleted creates a new PhotoDeleted event
func NewPhotoDeleted(photoID int, fileName string) PhotoDeleted {
	return PhotoDeleted{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		PhotoID:   photoID,
		FileName:  fileName,
	}
}

// SnapshotSaveFailed is raised when a mutation could not be persisted
type SnapshotSaveFailed struct {
	BaseEvent
	Operation  string // "add" or "delete"
	PhotoID    int
	Kind       string
	Error      string
	RolledBack bool
}

// EventName returns the event name
func (e SnapshotSaveFailed) EventName() string {
	return NameSnapshotSaveFailed
}

// NewSnapshotSaveFailed creates a new SnapshotSaveFailed event
func NewSnapshotSaveFailed(operation string, photoID int, kind, errMsg string, rolledBack bool) SnapshotSaveFailed {
	return SnapshotSaveFailed{
		BaseEvent:  BaseEvent{Timestamp: time.Now()},
		Operation:  operation,
		PhotoID:    photoID,
		Kind:       kind,
		Error:      errMsg,
		RolledBack: rolledBack,
	}
}

// CatalogLoaded is raised after a successful startup load
type CatalogLoaded struct {
	BaseEvent
	Path  string
	State string
	Count int
}

// EventName returns the event name
func (e CatalogLoaded) EventName() string {
	return NameCatalogLoaded
}

// NewCatalogLoaded creates a new CatalogLoaded event
func NewCatalogLoaded(path, state string, count int) CatalogLoaded {
	return CatalogLoaded{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		Path:      path,
		State:     state,
		Count:     count,
	}
}

// CatalogLoadDegraded is raised when the snapshot was unusable and the catalog started empty
type CatalogLoadDegraded struct {
	BaseEvent
	Path   string
	Reason string
}

// EventName returns the event name
func (e CatalogLoadDegraded) EventName() string {
	return NameCatalogLoadDegraded
}

// NewCatalogLoadDegraded creates a new CatalogLoadDegraded event
func NewCatalogLoadDegraded(path, reason string) CatalogLoadDegraded {
	return CatalogLoadDegraded{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		Path:      path,
		Reason:    reason,
	}
}

// CatalogExported is raised after the catalog was copied to an export target
type CatalogExported struct {
	BaseEvent
	Destination string
	Count       int
	Duration    time.Duration
}

// EventName returns the event name
func (e CatalogExported) EventName() string {
	return NameCatalogExported
}

// NewCatalogExported creates a new CatalogExported event
func NewCatalogExported(destination string, count int, duration time.Duration) CatalogExported {
	return CatalogExported{
		BaseEvent:   BaseEvent{Timestamp: time.Now()},
		Destination: destination,
		Count:       count,
		Duration:    duration,
	}
}
