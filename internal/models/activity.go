package models

import (
	"time"

	"github.com/google/uuid"
)

// UserActivity tracks when a user last touched the API. The stats
// reprocessor uses it to skip users who have gone idle.
type UserActivity struct {
	UserID             uuid.UUID `json:"user_id"`
	LastAPIInteraction time.Time `json:"last_api_interaction"`
	ReprocessingPaused bool      `json:"reprocessing_paused"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
