package events

import (
	"time"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventThreadUpdated EventType = "thread_updated"
)

// Actor identifies the admin who triggered the event.
type Actor struct {
	AccountID string      `json:"account_id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
}

// Event represents a post-mutation notification. It is a signal to re-fetch,
// not an authoritative diff: delivery order across events is not guaranteed.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ThreadID  int64       `json:"thread_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ThreadUpdatedPayload carries the resulting thread state.
type ThreadUpdatedPayload struct {
	Status        domain.ThreadStatus   `json:"status"`
	Priority      domain.ThreadPriority `json:"priority"`
	Folder        domain.ThreadFolder   `json:"folder"`
	Read          bool                  `json:"read"`
	ChangedFields []string              `json:"changed_fields"`
	UpdatedAt     time.Time             `json:"updated_at"`
}
