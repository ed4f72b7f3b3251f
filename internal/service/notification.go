package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/auth"
	"github.com/hiredeck/hiredeck/internal/events"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/store/model"
	"github.com/hiredeck/hiredeck/pkg/metrics"
	"go.uber.org/zap"
)

// Emitter persists a notification for a user. Implementations must write
// through the transaction carried by ctx so the notification commits or
// rolls back together with the lifecycle transition that produced it.
type Emitter interface {
	Emit(ctx context.Context, recipientUserID uuid.UUID, title, message, kind string, applicationID *uuid.UUID) (*model.Notification, error)
}

type NotificationService struct {
	store  store.Store
	events *events.EventProducer
	log    *zap.SugaredLogger
}

// Make sure we conform to Emitter interface
var _ Emitter = (*NotificationService)(nil)

func NewNotificationService(s store.Store, ep *events.EventProducer) *NotificationService {
	return &NotificationService{
		store:  s,
		events: ep,
		log:    zap.S().Named("notification_service"),
	}
}

func (n *NotificationService) Emit(ctx context.Context, recipientUserID uuid.UUID, title, message, kind string, applicationID *uuid.UUID) (*model.Notification, error) {
	notification, err := n.store.Notification().Create(ctx, model.Notification{
		ID:            uuid.New(),
		UserID:        recipientUserID,
		Title:         title,
		Message:       message,
		Kind:          kind,
		ApplicationID: applicationID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	metrics.IncreaseNotificationEmittedMetric(kind)
	n.pushEvent(notification)

	return notification, nil
}

// pushEvent is best effort. The notification row is the source of truth; the
// event only nudges connected clients to refresh their bell.
func (n *NotificationService) pushEvent(notification *model.Notification) {
	data, err := json.Marshal(events.NotificationEvent{
		NotificationID: notification.ID.String(),
		UserID:         notification.UserID.String(),
		Kind:           notification.Kind,
	})
	if err != nil {
		n.log.Warnw("failed to marshal notification event", "error", err)
		return
	}
	if err := n.events.Write(context.TODO(), events.NotificationMessageKind, bytes.NewReader(data)); err != nil {
		n.log.Warnw("failed to push notification event", "error", err)
	}
}

func (n *NotificationService) ListNotifications(ctx context.Context, user auth.User, unreadOnly bool) (model.NotificationList, error) {
	filter := store.NewNotificationQueryFilter().ByUserID(user.ID)
	if unreadOnly {
		filter = filter.ByUnread()
	}
	return n.store.Notification().List(ctx, filter)
}

func (n *NotificationService) MarkRead(ctx context.Context, user auth.User, id uuid.UUID) error {
	notification, err := n.store.Notification().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrNotificationNotFound(id)
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != user.ID {
		return NewErrAccessDenied()
	}

	if err := n.store.Notification().MarkRead(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrNotificationNotFound(id)
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (n *NotificationService) MarkAllRead(ctx context.Context, user auth.User) error {
	if err := n.store.Notification().MarkAllRead(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
