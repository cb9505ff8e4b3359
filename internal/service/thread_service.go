package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/repository"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

// ThreadService validates and applies partial updates to message threads.
type ThreadService struct {
	threads   repository.ThreadRepository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewThreadService constructs the service. publisher may be a no-op.
func NewThreadService(threads repository.ThreadRepository, publisher events.Publisher, logger *zap.Logger) *ThreadService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &ThreadService{threads: threads, publisher: publisher, logger: logger}
}

// ThreadUpdateInput is the explicit partial-update structure. Nil fields are
// no-ops; unknown request keys never reach this type.
type ThreadUpdateInput struct {
	Status        *string
	Priority      *string
	Folder        *string
	Read          *bool
	PrivateNote   *string
	AssignedAdmin *string
}

// Read fetches a thread with its labels and full conversation.
func (s *ThreadService) Read(ctx context.Context, rawID string) (*domain.MessageThread, error) {
	id, err := parseThreadID(rawID)
	if err != nil {
		return nil, err
	}
	thread, err := s.threads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("thread", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return thread, nil
}

// Update validates every supplied field against its domain, rejects the whole
// patch if any one field is invalid, persists the rest atomically, and then
// notifies observers best-effort. Notifier failure never fails the request.
func (s *ThreadService) Update(ctx context.Context, caller auth.Identity, rawID string, input ThreadUpdateInput) (*domain.MessageThread, error) {
	id, err := parseThreadID(rawID)
	if err != nil {
		return nil, err
	}

	patch, changed, err := buildThreadPatch(input)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperrors.NewValidationError("no updatable fields supplied", nil)
	}

	if err := s.threads.UpdateFields(ctx, id, patch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("thread", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	thread, err := s.threads.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishUpdated(ctx, caller, thread, changed)
	return thread, nil
}

func parseThreadID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("thread id must be numeric", map[string]any{"id": raw})
	}
	return id, nil
}

// buildThreadPatch validates enumerated fields independently; the first
// violation aborts the whole update naming the field and its valid set.
func buildThreadPatch(input ThreadUpdateInput) (repository.ThreadPatch, []string, error) {
	patch := repository.ThreadPatch{}
	changed := []string{}

	if input.Status != nil {
		status := domain.ThreadStatus(*input.Status)
		if !status.IsValid() {
			return repository.ThreadPatch{}, nil, apperrors.NewEnumViolation("status", *input.Status, domain.ThreadStatuses())
		}
		patch.Status = &status
		changed = append(changed, "status")
	}
	if input.Priority != nil {
		priority := domain.ThreadPriority(*input.Priority)
		if !priority.IsValid() {
			return repository.ThreadPatch{}, nil, apperrors.NewEnumViolation("priority", *input.Priority, domain.ThreadPriorities())
		}
		patch.Priority = &priority
		changed = append(changed, "priority")
	}
	if input.Folder != nil {
		folder := domain.ThreadFolder(*input.Folder)
		if !folder.IsValid() {
			return repository.ThreadPatch{}, nil, apperrors.NewEnumViolation("folder", *input.Folder, domain.ThreadFolders())
		}
		patch.Folder = &folder
		changed = append(changed, "folder")
	}
	if input.Read != nil {
		patch.Read = input.Read
		changed = append(changed, "read")
	}
	if input.PrivateNote != nil {
		patch.PrivateNote = input.PrivateNote
		changed = append(changed, "privateNote")
	}
	if input.AssignedAdmin != nil {
		patch.AssignedAdmin = input.AssignedAdmin
		changed = append(changed, "assignedAdmin")
	}

	return patch, changed, nil
}

func (s *ThreadService) publishUpdated(ctx context.Context, caller auth.Identity, thread *domain.MessageThread, changed []string) {
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventThreadUpdated,
		ThreadID:  thread.ID,
		Timestamp: time.Now(),
		Actor: events.Actor{
			AccountID: caller.ID,
			Email:     caller.Email,
			Role:      caller.Role,
		},
		Payload: events.ThreadUpdatedPayload{
			Status:        thread.Status,
			Priority:      thread.Priority,
			Folder:        thread.Folder,
			Read:          thread.Read,
			ChangedFields: changed,
			UpdatedAt:     thread.UpdatedAt,
		},
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("thread update notification failed",
			zap.Int64("thread_id", thread.ID), zap.Error(err))
	}
}
