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

type Application interface {
	List(ctx context.Context, filter *ApplicationQueryFilter) (model.ApplicationList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Application, error)
	Create(ctx context.Context, application model.Application) (*model.Application, error)
	// UpdateStatus moves the status only if the stored status still equals
	// fromStatus. False means a concurrent writer changed it first.
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (bool, error)
	// CompareAndAdvance bumps the round counter only if the stored counter
	// and status still match the expectation. Zero rows affected means a
	// concurrent writer advanced first.
	CompareAndAdvance(ctx context.Context, id uuid.UUID, fromRound int, fromStatus, toStatus string) (bool, error)
	// Delete removes the application only while its status still equals
	// fromStatus. False means a concurrent writer changed it first.
	Delete(ctx context.Context, id uuid.UUID, fromStatus string) (bool, error)
}

type ApplicationStore struct {
	db *gorm.DB
}

// Make sure we conform to Application interface
var _ Application = (*ApplicationStore)(nil)

func NewApplicationStore(db *gorm.DB) Application {
	return &ApplicationStore{db: db}
}

func (s *ApplicationStore) List(ctx context.Context, filter *ApplicationQueryFilter) (model.ApplicationList, error) {
	var applications model.ApplicationList
	tx := s.getDB(ctx).Model(&applications).
		Order("applications.created_at DESC").
		Preload("JobPost").
		Preload("JobPost.Company").
		Preload("InterviewRounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("interview_rounds.round_number ASC")
		})

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&applications)
	if result.Error != nil {
		return nil, result.Error
	}
	return applications, nil
}

func (s *ApplicationStore) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var application model.Application
	result := s.getDB(ctx).
		Preload("JobPost").
		Preload("JobPost.Company").
		Preload("InterviewRounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("interview_rounds.round_number ASC")
		}).
		First(&application, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &application, nil
}

func (s *ApplicationStore) Create(ctx context.Context, application model.Application) (*model.Application, error) {
	result := s.getDB(ctx).Clauses(clause.Returning{}).Create(&application)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return s.Get(ctx, application.ID)
}

func (s *ApplicationStore) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (bool, error) {
	now := time.Now()
	result := s.getDB(ctx).Model(&model.Application{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]any{"status": toStatus, "updated_at": &now})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *ApplicationStore) CompareAndAdvance(ctx context.Context, id uuid.UUID, fromRound int, fromStatus, toStatus string) (bool, error) {
	now := time.Now()
	result := s.getDB(ctx).Model(&model.Application{}).
		Where("id = ? AND current_round = ? AND status = ?", id, fromRound, fromStatus).
		Updates(map[string]any{"current_round": fromRound + 1, "status": toStatus, "updated_at": &now})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete removes the application together with its interview rounds and
// notifications. The status-guarded update up front takes the row lock and
// re-validates the status under it, so a concurrent transition on the same
// application either wins before the children go or loses with zero rows.
// The deletes ride the transaction carried by ctx, so withdraw never leaves
// orphan rows behind.
func (s *ApplicationStore) Delete(ctx context.Context, id uuid.UUID, fromStatus string) (bool, error) {
	db := s.getDB(ctx)

	result := db.Model(&model.Application{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", fromStatus)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	if err := db.Unscoped().Delete(&model.InterviewRound{}, "application_id = ?", id).Error; err != nil {
		return false, err
	}
	if err := db.Unscoped().Delete(&model.Notification{}, "application_id = ?", id).Error; err != nil {
		return false, err
	}

	if err := db.Unscoped().Delete(&model.Application{}, "id = ?", id).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (s *ApplicationStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
