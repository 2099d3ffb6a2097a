package models

import (
	"time"

	"github.com/google/uuid"
)

// HabitStats holds the computed counters for one habit
type HabitStats struct {
	TotalCompleted int     `json:"total_completed"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	LastCompleted  *string `json:"last_completed,omitempty"` // yyyy-MM-dd
}

// HabitStatistics holds per-habit completion statistics for a user.
// Tainted is set when a completion write invalidates the numbers; the
// worker recomputes and clears it. RefreshVersion guards concurrent
// recomputations with an optimistic version check.
type HabitStatistics struct {
	UserID          uuid.UUID             `json:"user_id"`
	Stats           map[string]HabitStats `json:"stats"` // keyed by habit id
	Tainted         bool                  `json:"tainted"`
	LastRefreshedAt *time.Time            `json:"last_refreshed_at,omitempty"`
	RefreshVersion  int                   `json:"refresh_version"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}
