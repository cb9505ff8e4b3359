package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice-service/internal/api/dto"
	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/service"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

// ThreadsHandler manages thread endpoints.
type ThreadsHandler struct {
	service *service.ThreadService
}

// NewThreadsHandler constructs handler.
func NewThreadsHandler(threadService *service.ThreadService) *ThreadsHandler {
	return &ThreadsHandler{service: threadService}
}

// GetThread GET /threads/:id.
func (h *ThreadsHandler) GetThread(c *fiber.Ctx) error {
	thread, err := h.service.Read(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": threadResponse(thread)})
}

// UpdateThread PATCH /threads/:id.
func (h *ThreadsHandler) UpdateThread(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ThreadUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.ThreadUpdateInput{
		Status:        req.Status,
		Priority:      req.Priority,
		Folder:        req.Folder,
		Read:          req.Read,
		PrivateNote:   req.PrivateNote,
		AssignedAdmin: req.AssignedAdmin,
	}
	thread, err := h.service.Update(c.Context(), *identity, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": threadResponse(thread)})
}

func threadResponse(thread *domain.MessageThread) dto.ThreadResponse {
	labels := make([]dto.LabelResponse, 0, len(thread.Labels))
	for _, label := range thread.Labels {
		labels = append(labels, dto.LabelResponse{ID: label.ID, Name: label.Name, Color: label.Color})
	}
	conversation := make([]dto.ThreadMessageResponse, 0, len(thread.Conversation))
	for i := range thread.Conversation {
		conversation = append(conversation, threadMessageResponse(&thread.Conversation[i]))
	}
	return dto.ThreadResponse{
		ID:            thread.ID,
		Subject:       thread.Subject,
		Status:        thread.Status,
		Priority:      thread.Priority,
		Folder:        thread.Folder,
		Read:          thread.Read,
		PrivateNote:   thread.PrivateNote,
		AssignedAdmin: thread.AssignedAdmin,
		Labels:        labels,
		Conversation:  conversation,
		CreatedAt:     thread.CreatedAt,
		UpdatedAt:     thread.UpdatedAt,
	}
}

func threadMessageResponse(msg *domain.ThreadMessage) dto.ThreadMessageResponse {
	attachments := make([]dto.AttachmentResponse, 0, len(msg.Attachments))
	for _, att := range msg.Attachments {
		attachments = append(attachments, dto.AttachmentResponse{
			ID:        att.ID,
			FileName:  att.FileName,
			MimeType:  att.MimeType,
			SizeBytes: att.SizeBytes,
		})
	}
	return dto.ThreadMessageResponse{
		ID:          msg.ID,
		SenderName:  msg.SenderName,
		SenderEmail: msg.SenderEmail,
		Body:        msg.Body,
		Attachments: attachments,
		CreatedAt:   msg.CreatedAt,
	}
}
