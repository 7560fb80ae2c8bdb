// ABOUTME: Observation model and the read-only repository interface for the master plan.
// ABOUTME: Implemented by SQLiteStore, CachedStore and MockStore.

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested observation does not exist
var ErrNotFound = errors.New("not found")

// Observation is one row of the Cassini master plan.
// Optional columns are nil when the database holds NULL.
type Observation struct {
	ID                int
	StartTimeUTC      string  // YYYY-DDDTHH:MM:SS
	Duration          *string // DDDTHH:MM:SS
	Date              *string // DD-MMM-YY
	Team              *string // instrument team, e.g. CAPS, ISS, MAG
	SpassType         *string // Non-SPASS, Prime, SPASS Rider
	Target            *string // Saturn, Titan, rings, ...
	RequestName       *string
	LibraryDefinition *string
	Title             *string
	Description       *string
}

// ObservationStore is the read-only query surface used by the tools.
// Implementations must be safe for concurrent readers.
type ObservationStore interface {
	// GetAll returns every observation ordered by id.
	GetAll(ctx context.Context) ([]*Observation, error)

	// GetByID returns ErrNotFound when no row has the given id.
	GetByID(ctx context.Context, id int) (*Observation, error)

	// GetByTeam and GetByTarget match the column exactly (case-sensitive).
	GetByTeam(ctx context.Context, team string) ([]*Observation, error)
	GetByTarget(ctx context.Context, target string) ([]*Observation, error)

	Count(ctx context.Context) (int, error)

	Close() error
}

// StringPtr is a convenience for building observations in tests and fixtures.
func StringPtr(s string) *string {
	return &s
}
