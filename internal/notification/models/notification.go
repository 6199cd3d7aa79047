package models

import (
	"time"

	id "electoral/pkg/domain"
)

// Category groups notifications for display.
type Category string

const (
	CategoryAccount    Category = "account"
	CategoryAssignment Category = "assignment"
	CategoryNomination Category = "nomination"
)

// DefaultListLimit caps list queries that do not ask for a size.
const DefaultListLimit = 50

// Notification is one message for one user. EventID makes delivery of the
// same outbox event idempotent.
type Notification struct {
	ID        id.NotificationID `json:"id"`
	UserID    id.UserID         `json:"user_id"`
	EventID   string            `json:"-"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Category  Category          `json:"category"`
	IsRead    bool              `json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
}
