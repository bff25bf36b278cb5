package domain

import (
	"errors"
	"fmt"
)

// OutcomeStatus tags the result of a catalog mutation
type OutcomeStatus int

const (
	OutcomeOK OutcomeStatus = iota
	OutcomeDuplicateKey
	OutcomeNotFound
	OutcomePersistenceFailure
)

// String returns the status name
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeOK:
		return "ok"
	case OutcomeDuplicateKey:
		return "duplicate_key"
	case OutcomeNotFound:
		return "not_found"
	case OutcomePersistenceFailure:
		return "persistence_failure"
	default:
		return "unknown"
	}
}

// Outcome is the result of an add or delete. Expected failures (duplicate id,
// missing id, failed save) are reported here instead of as Go errors.
type Outcome struct {
	Status  OutcomeStatus
	Message string
	Err     error
}

// OK returns true if the mutation was applied and saved
func (o Outcome) OK() bool {
	return o.Status == OutcomeOK
}

// Succeeded creates a successful outcome
func Succeeded(format string, args ...any) Outcome {
	return Outcome{Status: OutcomeOK, Message: fmt.Sprintf(format, args...)}
}

// DuplicateKey creates an outcome for an add with an id already in use
func DuplicateKey(id int) Outcome {
	return Outcome{
		Status:  OutcomeDuplicateKey,
		Message: fmt.Sprintf("photo with id %d already exists", id),
		Err:     fmt.Errorf("id %d: %w", id, ErrDuplicateKey),
	}
}

// NotFound creates an outcome for a delete of an unknown id
func NotFound(id int) Outcome {
	return Outcome{
		Status:  OutcomeNotFound,
		Message: fmt.Sprintf("photo with id %d not found", id),
		Err:     fmt.Errorf("id %d: %w", id, ErrNotFound),
	}
}

// PersistenceFailed creates an outcome for a mutation whose save failed
func PersistenceFailed(message string, err error) Outcome {
	if !errors.Is(err, ErrPersistence) {
		err = fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return Outcome{
		Status:  OutcomePersistenceFailure,
		Message: message,
		Err:     err,
	}
}
