package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/events"
)

// NotificationService attaches in-process observers to thread events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventThreadUpdated, n.handleThreadUpdated)
}

func (n *NotificationService) handleThreadUpdated(_ context.Context, event events.Event) error {
	n.logger.Info("ThreadUpdated",
		zap.Int64("thread_id", event.ThreadID),
		zap.String("actor", event.Actor.Email),
		zap.Any("payload", event.Payload))
	return nil
}
