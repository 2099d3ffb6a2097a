package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hemantsony09/habit-tracker-api/internal/models"
)

// ProgressRepository handles daily progress database operations
type ProgressRepository struct {
	db *DB
}

// NewProgressRepository creates a new daily progress repository
func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Create inserts a new daily progress record
func (r *ProgressRepository) Create(ctx context.Context, progress *models.DailyProgress) error {
	query := `
		INSERT INTO daily_progress (id, user_id, date, mood, motivation)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		progress.ID,
		progress.UserID,
		progress.Date,
		nullableInt(progress.Mood),
		nullableInt(progress.Motivation),
	)

	if err != nil {
		return fmt.Errorf("failed to create daily progress: %w", err)
	}

	return nil
}

// FindByDate looks up a progress record by exact date match.
// Returns nil without error when no record exists.
func (r *ProgressRepository) FindByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailyProgress, error) {
	query := `
		SELECT id, user_id, date, mood, motivation
		FROM daily_progress
		WHERE user_id = $1 AND date = $2
		LIMIT 1
	`

	progress, err := scanProgress(r.db.QueryRowContext(ctx, query, userID, date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find daily progress: %w", err)
	}

	return progress, nil
}

// GetByUserIDAndRange retrieves progress records whose date falls within
// [start, end] inclusive
func (r *ProgressRepository) GetByUserIDAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.DailyProgress, error) {
	query := `
		SELECT id, user_id, date, mood, motivation
		FROM daily_progress
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily progress: %w", err)
	}
	defer rows.Close()

	var records []*models.DailyProgress
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily progress: %w", err)
		}
		records = append(records, progress)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily progress: %w", err)
	}

	return records, nil
}

// UpdateRatings replaces the mood and motivation of an existing record
func (r *ProgressRepository) UpdateRatings(ctx context.Context, id uuid.UUID, mood, motivation *int) error {
	query := `UPDATE daily_progress SET mood = $2, motivation = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, nullableInt(mood), nullableInt(motivation))
	if err != nil {
		return fmt.Errorf("failed to update daily progress: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("daily progress not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (*models.DailyProgress, error) {
	progress := &models.DailyProgress{}
	var mood, motivation sql.NullInt64

	err := row.Scan(
		&progress.ID,
		&progress.UserID,
		&progress.Date,
		&mood,
		&motivation,
	)
	if err != nil {
		return nil, err
	}

	if mood.Valid {
		v := int(mood.Int64)
		progress.Mood = &v
	}
	if motivation.Valid {
		v := int(motivation.Int64)
		progress.Motivation = &v
	}

	return progress, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
