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

type JobPost interface {
	List(ctx context.Context, filter *JobPostQueryFilter) (model.JobPostList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.JobPost, error)
	Create(ctx context.Context, jobPost model.JobPost) (*model.JobPost, error)
	Update(ctx context.Context, jobPost model.JobPost) (*model.JobPost, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type JobPostStore struct {
	db *gorm.DB
}

// Make sure we conform to JobPost interface
var _ JobPost = (*JobPostStore)(nil)

func NewJobPostStore(db *gorm.DB) JobPost {
	return &JobPostStore{db: db}
}

func (s *JobPostStore) List(ctx context.Context, filter *JobPostQueryFilter) (model.JobPostList, error) {
	var jobPosts model.JobPostList
	tx := s.getDB(ctx).Model(&jobPosts).Order("created_at DESC").Preload("Company")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&jobPosts)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobPosts, nil
}

func (s *JobPostStore) Get(ctx context.Context, id uuid.UUID) (*model.JobPost, error) {
	var jobPost model.JobPost
	result := s.getDB(ctx).Preload("Company").First(&jobPost, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &jobPost, nil
}

func (s *JobPostStore) Create(ctx context.Context, jobPost model.JobPost) (*model.JobPost, error) {
	result := s.getDB(ctx).Clauses(clause.Returning{}).Create(&jobPost)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return s.Get(ctx, jobPost.ID)
}

func (s *JobPostStore) Update(ctx context.Context, jobPost model.JobPost) (*model.JobPost, error) {
	now := time.Now()
	jobPost.UpdatedAt = &now
	result := s.getDB(ctx).Model(&jobPost).Clauses(clause.Returning{}).Updates(&jobPost)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return s.Get(ctx, jobPost.ID)
}

// Delete cascades through applications: each application's rounds and
// notifications go first, then the applications, then the post itself.
func (s *JobPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	db := s.getDB(ctx)

	var applicationIDs []uuid.UUID
	if err := db.Model(&model.Application{}).
		Where("job_post_id = ?", id).
		Pluck("id", &applicationIDs).Error; err != nil {
		return err
	}

	if len(applicationIDs) > 0 {
		if err := db.Unscoped().Delete(&model.InterviewRound{}, "application_id IN ?", applicationIDs).Error; err != nil {
			return err
		}
		if err := db.Unscoped().Delete(&model.Notification{}, "application_id IN ?", applicationIDs).Error; err != nil {
			return err
		}
		if err := db.Unscoped().Delete(&model.Application{}, "id IN ?", applicationIDs).Error; err != nil {
			return err
		}
	}

	result := db.Unscoped().Delete(&model.JobPost{}, "id = ?", id)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

func (s *JobPostStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
