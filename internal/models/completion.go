package models

import (
	"time"

	"github.com/google/uuid"
)

// HabitCompletion marks whether a habit was done on a calendar day.
// Date always has its time-of-day zeroed; equality on it is how writes
// for the same (habit, day) coalesce, so writers and queries must zero
// it identically.
type HabitCompletion struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	HabitID   uuid.UUID `json:"habit_id"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
}
