package models

import (
	"time"

	"github.com/google/uuid"
)

// Habit represents a recurring habit a user tracks day by day.
// StartTime/EndTime (HH:mm) and Duration (hours) are alternative ways of
// describing the time commitment; the storage layer accepts either or both.
type Habit struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	StartTime string    `json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
	Duration  string    `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
