package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hemantsony09/habit-tracker-api/internal/models"
)

// HabitStatsRepository handles habit statistics database operations
type HabitStatsRepository struct {
	db *DB
}

// NewHabitStatsRepository creates a new habit statistics repository
func NewHabitStatsRepository(db *DB) *HabitStatsRepository {
	return &HabitStatsRepository{db: db}
}

// GetByUserID retrieves habit statistics by user ID
func (r *HabitStatsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.HabitStatistics, error) {
	stats := &models.HabitStatistics{}
	var statsJSON []byte
	var lastRefreshedAt sql.NullTime

	query := `
		SELECT user_id, stats, tainted, last_refreshed_at, refresh_version, created_at, updated_at
		FROM habit_statistics
		WHERE user_id = $1
	`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID,
		&statsJSON,
		&stats.Tainted,
		&lastRefreshedAt,
		&stats.RefreshVersion,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("habit statistics not found for user %s", userID)
		}
		return nil, fmt.Errorf("failed to get habit statistics: %w", err)
	}

	if len(statsJSON) > 0 {
		if err := json.Unmarshal(statsJSON, &stats.Stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
		}
	} else {
		stats.Stats = make(map[string]models.HabitStats)
	}

	if lastRefreshedAt.Valid {
		stats.LastRefreshedAt = &lastRefreshedAt.Time
	}

	return stats, nil
}

// GetByUserIDOrCreate retrieves habit statistics or creates an empty tainted
// record if none exists yet
func (r *HabitStatsRepository) GetByUserIDOrCreate(ctx context.Context, userID uuid.UUID) (*models.HabitStatistics, error) {
	stats, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return stats, nil
	}

	stats = &models.HabitStatistics{
		UserID:         userID,
		Stats:          make(map[string]models.HabitStats),
		Tainted:        true,
		RefreshVersion: 0,
	}

	// Upsert handles the race where the record appears between the failed
	// read and this write
	if err := r.Upsert(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to create habit statistics: %w", err)
	}

	return r.GetByUserID(ctx, userID)
}

// UpdateStatistics writes recomputed statistics under an optimistic version
// check. Returns false without error when another refresh got there first.
func (r *HabitStatsRepository) UpdateStatistics(ctx context.Context, stats *models.HabitStatistics) (bool, error) {
	query := `
		UPDATE habit_statistics
		SET stats = $1, tainted = false, last_refreshed_at = $2, refresh_version = refresh_version + 1, updated_at = $3
		WHERE user_id = $4 AND refresh_version = $5
		RETURNING refresh_version, created_at, updated_at
	`

	statsJSON, err := json.Marshal(stats.Stats)
	if err != nil {
		return false, fmt.Errorf("failed to marshal stats: %w", err)
	}

	now := time.Now()
	var lastRefreshedAt sql.NullTime
	if stats.LastRefreshedAt != nil {
		lastRefreshedAt = sql.NullTime{Time: *stats.LastRefreshedAt, Valid: true}
	} else {
		lastRefreshedAt = sql.NullTime{Time: now, Valid: true}
	}

	var newVersion int
	err = r.db.QueryRowContext(ctx, query,
		statsJSON,
		lastRefreshedAt,
		now,
		stats.UserID,
		stats.RefreshVersion,
	).Scan(&newVersion, &stats.CreatedAt, &stats.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to update habit statistics: %w", err)
	}

	stats.RefreshVersion = newVersion
	stats.Tainted = false
	if lastRefreshedAt.Valid {
		stats.LastRefreshedAt = &lastRefreshedAt.Time
	}

	return true, nil
}

// MarkTainted flags a user's statistics as stale. Returns true when this
// call performed the false->true transition, false when the record was
// already tainted.
func (r *HabitStatsRepository) MarkTainted(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE habit_statistics
		SET tainted = true, updated_at = $1
		WHERE user_id = $2 AND tainted = false
		RETURNING user_id
	`

	var resultID uuid.UUID
	err := r.db.QueryRowContext(ctx, query, time.Now(), userID).Scan(&resultID)

	if err != nil {
		if err == sql.ErrNoRows {
			// Already tainted, or no record yet. Upsert so the row exists
			// for the worker to find.
			upsertQuery := `
				INSERT INTO habit_statistics (user_id, stats, tainted, refresh_version, created_at, updated_at)
				VALUES ($1, '{}', true, 0, $2, $2)
				ON CONFLICT (user_id) DO UPDATE
				SET tainted = true, updated_at = $2
				WHERE habit_statistics.tainted = false
				RETURNING user_id
			`
			err = r.db.QueryRowContext(ctx, upsertQuery, userID, time.Now()).Scan(&resultID)
			if err != nil {
				if err == sql.ErrNoRows {
					return false, nil
				}
				return false, fmt.Errorf("failed to mark habit statistics tainted: %w", err)
			}
			return true, nil
		}
		return false, fmt.Errorf("failed to mark habit statistics tainted: %w", err)
	}

	return true, nil
}

// Upsert creates or replaces habit statistics
func (r *HabitStatsRepository) Upsert(ctx context.Context, stats *models.HabitStatistics) error {
	query := `
		INSERT INTO habit_statistics (user_id, stats, tainted, last_refreshed_at, refresh_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET stats = EXCLUDED.stats,
		    tainted = EXCLUDED.tainted,
		    last_refreshed_at = EXCLUDED.last_refreshed_at,
		    refresh_version = EXCLUDED.refresh_version,
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	statsJSON, err := json.Marshal(stats.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	var lastRefreshedAt sql.NullTime
	if stats.LastRefreshedAt != nil {
		lastRefreshedAt = sql.NullTime{Time: *stats.LastRefreshedAt, Valid: true}
	}

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		stats.UserID,
		statsJSON,
		stats.Tainted,
		lastRefreshedAt,
		stats.RefreshVersion,
		now,
		now,
	).Scan(&stats.CreatedAt, &stats.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert habit statistics: %w", err)
	}

	return nil
}
