package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a local account provisioned on first authenticated request.
// ProviderID holds the identity provider's opaque subject; all habit and
// task data is partitioned by the local ID.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	ProviderID    *string   `json:"provider_id,omitempty"`
	Name          *string   `json:"name,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
