package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyProgress records a user's mood and motivation ratings for one day.
// Date is stored at UTC midnight for the calendar day the user selected.
// Mood and Motivation are independently optional, 1-10 when present.
type DailyProgress struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Date       time.Time `json:"date"`
	Mood       *int      `json:"mood"`
	Motivation *int      `json:"motivation"`
}
