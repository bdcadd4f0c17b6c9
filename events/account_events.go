package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// AccountDeletedEvent is emitted after a user record has been removed.
type AccountDeletedEvent struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	DeletedAt time.Time `json:"deleted_at"`
}

// AccountDeletedV1 is the typed event definition for account deletion.
// Subject: events.auth.v1.account-deleted
var AccountDeletedV1 = helper.EventDefinition[AccountDeletedEvent](
	"auth", "AccountDeleted", "v1",
)
