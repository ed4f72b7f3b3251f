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

type InterviewRound interface {
	Get(ctx context.Context, id uuid.UUID) (*model.InterviewRound, error)
	List(ctx context.Context, applicationID uuid.UUID) ([]model.InterviewRound, error)
	Create(ctx context.Context, round model.InterviewRound) (*model.InterviewRound, error)
	// UpdateOutcome records the outcome of a round that is still pending.
	// ErrConcurrentUpdate means another evaluator got there first.
	UpdateOutcome(ctx context.Context, id uuid.UUID, status string, feedback *string) (*model.InterviewRound, error)
}

type InterviewRoundStore struct {
	db *gorm.DB
}

// Make sure we conform to InterviewRound interface
var _ InterviewRound = (*InterviewRoundStore)(nil)

func NewInterviewRoundStore(db *gorm.DB) InterviewRound {
	return &InterviewRoundStore{db: db}
}

func (s *InterviewRoundStore) Get(ctx context.Context, id uuid.UUID) (*model.InterviewRound, error) {
	var round model.InterviewRound
	result := s.getDB(ctx).First(&round, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &round, nil
}

func (s *InterviewRoundStore) List(ctx context.Context, applicationID uuid.UUID) ([]model.InterviewRound, error) {
	var rounds []model.InterviewRound
	result := s.getDB(ctx).
		Where("application_id = ?", applicationID).
		Order("round_number ASC").
		Find(&rounds)
	if result.Error != nil {
		return nil, result.Error
	}
	return rounds, nil
}

// Create relies on the (application_id, round_number) unique index: a
// concurrent advance that assigns the same round number surfaces as
// ErrDuplicateKey.
func (s *InterviewRoundStore) Create(ctx context.Context, round model.InterviewRound) (*model.InterviewRound, error) {
	result := s.getDB(ctx).Clauses(clause.Returning{}).Create(&round)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &round, nil
}

func (s *InterviewRoundStore) UpdateOutcome(ctx context.Context, id uuid.UUID, status string, feedback *string) (*model.InterviewRound, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]any{"status": status, "updated_at": &now}
	if feedback != nil {
		updates["feedback"] = feedback
	}

	result := s.getDB(ctx).Model(&model.InterviewRound{}).
		Where("id = ? AND status = ?", id, model.RoundStatusPending).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrConcurrentUpdate
	}
	return s.Get(ctx, id)
}

func (s *InterviewRoundStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
