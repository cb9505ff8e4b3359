package dto

import (
	"time"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// ThreadUpdateRequest is the explicit partial-update payload. Unknown keys
// are ignored by the JSON decoder, never coerced.
type ThreadUpdateRequest struct {
	Status        *string `json:"status"`
	Priority      *string `json:"priority"`
	Folder        *string `json:"folder"`
	Read          *bool   `json:"read"`
	PrivateNote   *string `json:"privateNote"`
	AssignedAdmin *string `json:"assignedAdmin"`
}

// LabelResponse represents a thread label.
type LabelResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// AttachmentResponse represents message attachment metadata.
type AttachmentResponse struct {
	ID        int64  `json:"id"`
	FileName  string `json:"fileName"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}

// ThreadMessageResponse represents one conversation entry.
type ThreadMessageResponse struct {
	ID          int64                `json:"id"`
	SenderName  string               `json:"senderName"`
	SenderEmail string               `json:"senderEmail"`
	Body        string               `json:"body"`
	Attachments []AttachmentResponse `json:"attachments"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// ThreadResponse is the joined thread view returned by read and update.
type ThreadResponse struct {
	ID            int64                   `json:"id"`
	Subject       string                  `json:"subject"`
	Status        domain.ThreadStatus     `json:"status"`
	Priority      domain.ThreadPriority   `json:"priority"`
	Folder        domain.ThreadFolder     `json:"folder"`
	Read          bool                    `json:"read"`
	PrivateNote   *string                 `json:"privateNote"`
	AssignedAdmin *string                 `json:"assignedAdmin"`
	Labels        []LabelResponse         `json:"labels"`
	Conversation  []ThreadMessageResponse `json:"conversation"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}
