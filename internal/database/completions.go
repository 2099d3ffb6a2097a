package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hemantsony09/habit-tracker-api/internal/models"
)

// CompletionRepository handles habit completion database operations.
// There is deliberately no unique constraint on (habit_id, date): the
// store layer coalesces records with a query-then-write upsert, matching
// on exact date equality.
type CompletionRepository struct {
	db *DB
}

// NewCompletionRepository creates a new completion repository
func NewCompletionRepository(db *DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// Create inserts a new completion record
func (r *CompletionRepository) Create(ctx context.Context, completion *models.HabitCompletion) error {
	query := `
		INSERT INTO habit_completions (id, user_id, habit_id, date, completed)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		completion.ID,
		completion.UserID,
		completion.HabitID,
		completion.Date,
		completion.Completed,
	)

	if err != nil {
		return fmt.Errorf("failed to create habit completion: %w", err)
	}

	return nil
}

// FindByHabitAndDate looks up a completion by exact (habit, date) match.
// Returns nil without error when no record exists.
func (r *CompletionRepository) FindByHabitAndDate(ctx context.Context, userID, habitID uuid.UUID, date time.Time) (*models.HabitCompletion, error) {
	completion := &models.HabitCompletion{}
	query := `
		SELECT id, user_id, habit_id, date, completed
		FROM habit_completions
		WHERE user_id = $1 AND habit_id = $2 AND date = $3
		LIMIT 1
	`

	err := r.db.QueryRowContext(ctx, query, userID, habitID, date).Scan(
		&completion.ID,
		&completion.UserID,
		&completion.HabitID,
		&completion.Date,
		&completion.Completed,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find habit completion: %w", err)
	}

	return completion, nil
}

// GetByUserIDAndRange retrieves completions whose date falls within
// [start, end] inclusive
func (r *CompletionRepository) GetByUserIDAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.HabitCompletion, error) {
	query := `
		SELECT id, user_id, habit_id, date, completed
		FROM habit_completions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query habit completions: %w", err)
	}
	defer rows.Close()

	return scanCompletions(rows)
}

// GetByHabitID retrieves every completion referencing a habit
func (r *CompletionRepository) GetByHabitID(ctx context.Context, userID, habitID uuid.UUID) ([]*models.HabitCompletion, error) {
	query := `
		SELECT id, user_id, habit_id, date, completed
		FROM habit_completions
		WHERE user_id = $1 AND habit_id = $2
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query habit completions: %w", err)
	}
	defer rows.Close()

	return scanCompletions(rows)
}

// GetByUserID retrieves every completion in a user's partition
func (r *CompletionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.HabitCompletion, error) {
	query := `
		SELECT id, user_id, habit_id, date, completed
		FROM habit_completions
		WHERE user_id = $1
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query habit completions: %w", err)
	}
	defer rows.Close()

	return scanCompletions(rows)
}

// UpdateCompleted flips the completed flag on an existing record
func (r *CompletionRepository) UpdateCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	query := `UPDATE habit_completions SET completed = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, completed)
	if err != nil {
		return fmt.Errorf("failed to update habit completion: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("habit completion not found")
	}

	return nil
}

// Delete deletes a completion by ID
func (r *CompletionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM habit_completions WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit completion: %w", err)
	}

	return nil
}

func scanCompletions(rows *sql.Rows) ([]*models.HabitCompletion, error) {
	var completions []*models.HabitCompletion
	for rows.Next() {
		completion := &models.HabitCompletion{}
		err := rows.Scan(
			&completion.ID,
			&completion.UserID,
			&completion.HabitID,
			&completion.Date,
			&completion.Completed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit completion: %w", err)
		}
		completions = append(completions, completion)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habit completions: %w", err)
	}

	return completions, nil
}
