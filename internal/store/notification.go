package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Notification interface {
	List(ctx context.Context, filter *NotificationQueryFilter) (model.NotificationList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	Create(ctx context.Context, notification model.Notification) (*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type NotificationStore struct {
	db *gorm.DB
}

// Make sure we conform to Notification interface
var _ Notification = (*NotificationStore)(nil)

func NewNotificationStore(db *gorm.DB) Notification {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) List(ctx context.Context, filter *NotificationQueryFilter) (model.NotificationList, error) {
	var notifications model.NotificationList
	tx := s.getDB(ctx).Model(&notifications).Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}
	return notifications, nil
}

func (s *NotificationStore) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var notification model.Notification
	result := s.getDB(ctx).First(&notification, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &notification, nil
}

func (s *NotificationStore) Create(ctx context.Context, notification model.Notification) (*model.Notification, error) {
	result := s.getDB(ctx).Clauses(clause.Returning{}).Create(&notification)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &notification, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := s.getDB(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{"read": true, "updated_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	result := s.getDB(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]any{"read": true, "updated_at": &now})
	return result.Error
}

func (s *NotificationStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
