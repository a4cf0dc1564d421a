// Package storage defines the repository contracts the engine depends on.
// The surrounding platform keeps a global data-store client; this core takes
// explicitly injected repositories instead, so the engine is testable without
// a live database and the compare-and-swap guard on pick-set writes is part
// of the interface contract.
package storage

import (
	"context"
	"errors"
	"time"

	"dailymatch-engine/pkg/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrStale is returned by PutIfStale when another writer already
	// committed a pick set for the same logical day.
	ErrStale = errors.New("storage: pick set already fresh")
)

// ProfileReader loads candidate snapshots from the platform's user store.
type ProfileReader interface {
	GetProfile(ctx context.Context, candidateID string) (*models.CandidateProfile, error)
}

// CorpusStore is the opportunity reader/writer over the corpus.
type CorpusStore interface {
	Create(ctx context.Context, opp *models.Opportunity) error
	ActiveOpportunities(ctx context.Context) ([]models.Opportunity, error)
	ByIDs(ctx context.Context, ids []string) ([]models.Opportunity, error)
}

// PickSetStore persists one bounded DailyPickSet per candidate.
type PickSetStore interface {
	Get(ctx context.Context, candidateID string) (*models.DailyPickSet, error)

	// PutIfStale commits the set only if the stored refresh date still
	// differs from set.RefreshDate — a set-if-still-stale compare-and-swap
	// keyed on candidate id. Returns ErrStale when a concurrent request
	// already regenerated for the same logical day; the stored set is then
	// authoritative.
	PutIfStale(ctx context.Context, set *models.DailyPickSet) error
}

// StreakStore persists one StreakRecord per candidate.
type StreakStore interface {
	Get(ctx context.Context, candidateID string) (*models.StreakRecord, error)

	// Apply runs a read-modify-write of the candidate's streak record under
	// a per-candidate guard, so concurrent qualifying events cannot
	// double-increment within one day. A missing record is passed to fn as
	// a zero record with the candidate id set.
	Apply(ctx context.Context, candidateID string, fn func(models.StreakRecord) models.StreakRecord) (*models.StreakRecord, error)
}

// Clock returns the current instant; injectable for deterministic tests.
type Clock func() time.Time
