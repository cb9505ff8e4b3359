package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/repository"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

type fakeThreadRepo struct {
	threads map[int64]*domain.MessageThread
	updates int
}

func newFakeThreadRepo(seed ...*domain.MessageThread) *fakeThreadRepo {
	repo := &fakeThreadRepo{threads: map[int64]*domain.MessageThread{}}
	for _, thread := range seed {
		repo.threads[thread.ID] = thread
	}
	return repo
}

func (r *fakeThreadRepo) GetByID(_ context.Context, id int64) (*domain.MessageThread, error) {
	thread, ok := r.threads[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *thread
	return &copied, nil
}

func (r *fakeThreadRepo) UpdateFields(_ context.Context, id int64, patch repository.ThreadPatch) error {
	thread, ok := r.threads[id]
	if !ok {
		return pgx.ErrNoRows
	}
	r.updates++
	if patch.Status != nil {
		thread.Status = *patch.Status
	}
	if patch.Priority != nil {
		thread.Priority = *patch.Priority
	}
	if patch.Folder != nil {
		thread.Folder = *patch.Folder
	}
	if patch.Read != nil {
		thread.Read = *patch.Read
	}
	if patch.PrivateNote != nil {
		thread.PrivateNote = patch.PrivateNote
	}
	if patch.AssignedAdmin != nil {
		thread.AssignedAdmin = patch.AssignedAdmin
	}
	thread.UpdatedAt = time.Now()
	return nil
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func seedThread() *domain.MessageThread {
	return &domain.MessageThread{
		ID:       42,
		Subject:  "Order never arrived",
		Status:   domain.ThreadStatusOpen,
		Priority: domain.ThreadPriorityMedium,
		Folder:   domain.ThreadFolderInbox,
	}
}

func testCaller() auth.Identity {
	return auth.Identity{ID: "acc-1", Email: "admin@example.com", Role: domain.RoleAdmin}
}

func TestReadThread(t *testing.T) {
	svc := NewThreadService(newFakeThreadRepo(seedThread()), nil, zap.NewNop())

	thread, err := svc.Read(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), thread.ID)
	assert.Equal(t, domain.ThreadStatusOpen, thread.Status)
}

func TestReadThreadNonNumericID(t *testing.T) {
	svc := NewThreadService(newFakeThreadRepo(), nil, zap.NewNop())

	_, err := svc.Read(context.Background(), "abc")
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
}

func TestReadThreadNotFound(t *testing.T) {
	svc := NewThreadService(newFakeThreadRepo(), nil, zap.NewNop())

	_, err := svc.Read(context.Background(), "7")
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestUpdateThreadAppliesPatchAndPublishes(t *testing.T) {
	repo := newFakeThreadRepo(seedThread())
	publisher := &recordingPublisher{}
	svc := NewThreadService(repo, publisher, zap.NewNop())

	status := "RESOLVED"
	read := true
	note := "refund issued"
	thread, err := svc.Update(context.Background(), testCaller(), "42", ThreadUpdateInput{
		Status:      &status,
		Read:        &read,
		PrivateNote: &note,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ThreadStatusResolved, thread.Status)
	assert.True(t, thread.Read)
	require.NotNil(t, thread.PrivateNote)
	assert.Equal(t, "refund issued", *thread.PrivateNote)
	assert.Equal(t, domain.ThreadFolderInbox, thread.Folder, "omitted fields stay unchanged")

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, events.EventThreadUpdated, event.Type)
	assert.Equal(t, int64(42), event.ThreadID)
	assert.Equal(t, "acc-1", event.Actor.AccountID)

	payload, ok := event.Payload.(events.ThreadUpdatedPayload)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"status", "read", "privateNote"}, payload.ChangedFields)
	assert.Equal(t, domain.ThreadStatusResolved, payload.Status)
}

func TestUpdateThreadInvalidEnumRejectsWholePatch(t *testing.T) {
	repo := newFakeThreadRepo(seedThread())
	publisher := &recordingPublisher{}
	svc := NewThreadService(repo, publisher, zap.NewNop())

	status := "RESOLVED"
	folder := "DRAFTS"
	_, err := svc.Update(context.Background(), testCaller(), "42", ThreadUpdateInput{
		Status: &status,
		Folder: &folder,
	})

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, "folder", de.Details["field"])
	assert.Equal(t, "DRAFTS", de.Details["value"])
	assert.NotNil(t, de.Details["allowed"])

	assert.Equal(t, 0, repo.updates, "rejected patch must not touch the store")
	stored, _ := repo.GetByID(context.Background(), 42)
	assert.Equal(t, domain.ThreadStatusOpen, stored.Status)
	assert.Empty(t, publisher.events)
}

func TestUpdateThreadEmptyPatch(t *testing.T) {
	svc := NewThreadService(newFakeThreadRepo(seedThread()), nil, zap.NewNop())

	_, err := svc.Update(context.Background(), testCaller(), "42", ThreadUpdateInput{})
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
}

func TestUpdateThreadNotFound(t *testing.T) {
	svc := NewThreadService(newFakeThreadRepo(), nil, zap.NewNop())

	read := true
	_, err := svc.Update(context.Background(), testCaller(), "99", ThreadUpdateInput{Read: &read})
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestUpdateThreadPublisherFailureIsSwallowed(t *testing.T) {
	repo := newFakeThreadRepo(seedThread())
	publisher := &recordingPublisher{err: errors.New("broker down")}
	svc := NewThreadService(repo, publisher, zap.NewNop())

	priority := "URGENT"
	thread, err := svc.Update(context.Background(), testCaller(), "42", ThreadUpdateInput{
		Priority: &priority,
	})
	require.NoError(t, err, "notification failure must not fail the update")
	assert.Equal(t, domain.ThreadPriorityUrgent, thread.Priority)
	assert.Len(t, publisher.events, 1)
}
