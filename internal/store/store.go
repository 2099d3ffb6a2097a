// Package store is the persistence gateway: it validates user input,
// scopes every operation to one user's partition and translates between
// stored rows and the date-string records callers work with.
//
// Failure semantics are asymmetric on purpose. Reads degrade to an empty
// result so callers can render an empty state; writes propagate a
// StorageError the caller must surface (and use to revert any optimistic
// local state).
package store

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hemantsony09/habit-tracker-api/internal/database"
)

const dayFormat = "2006-01-02"

// StatsNotifier is told when a user's completion history changed so the
// statistics pipeline can schedule a recompute.
type StatsNotifier interface {
	CompletionsChanged(ctx context.Context, userID uuid.UUID)
}

// Store issues all habit, completion, progress and task operations
// through injected repositories.
type Store struct {
	habits      database.HabitRepositoryInterface
	completions database.CompletionRepositoryInterface
	progress    database.ProgressRepositoryInterface
	tasks       database.TaskRepositoryInterface
	notifier    StatsNotifier
	logger      *zap.Logger
}

// New creates a Store backed by the given repositories.
func New(
	habits database.HabitRepositoryInterface,
	completions database.CompletionRepositoryInterface,
	progress database.ProgressRepositoryInterface,
	tasks database.TaskRepositoryInterface,
	logger *zap.Logger,
) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		habits:      habits,
		completions: completions,
		progress:    progress,
		tasks:       tasks,
		logger:      logger,
	}
}

// SetStatsNotifier wires the statistics pipeline in. A nil notifier
// (the default) disables notifications.
func (s *Store) SetStatsNotifier(n StatsNotifier) {
	s.notifier = n
}

func (s *Store) notifyCompletionsChanged(ctx context.Context, userID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	s.notifier.CompletionsChanged(ctx, userID)
}

func requireUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrNotAuthenticated
	}
	return nil
}
