package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/store/model"
	"gorm.io/gorm"
)

// Company, JobSeeker and User stores back the authorization guard: ownership
// is always re-derived from these persisted relations, never taken from the
// request.

type Company interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Company, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Company, error)
	Create(ctx context.Context, company model.Company) (*model.Company, error)
}

type JobSeeker interface {
	Get(ctx context.Context, id uuid.UUID) (*model.JobSeeker, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.JobSeeker, error)
	Create(ctx context.Context, seeker model.JobSeeker) (*model.JobSeeker, error)
}

type User interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user model.User) (*model.User, error)
}

type CompanyStore struct {
	db *gorm.DB
}

var _ Company = (*CompanyStore)(nil)

func NewCompanyStore(db *gorm.DB) Company {
	return &CompanyStore{db: db}
}

func (s *CompanyStore) Get(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := firstOrNotFound(s.getDB(ctx).First(&company, "id = ?", id)); err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *CompanyStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := firstOrNotFound(s.getDB(ctx).First(&company, "user_id = ?", userID)); err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *CompanyStore) Create(ctx context.Context, company model.Company) (*model.Company, error) {
	result := s.getDB(ctx).Create(&company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &company, nil
}

func (s *CompanyStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

type JobSeekerStore struct {
	db *gorm.DB
}

var _ JobSeeker = (*JobSeekerStore)(nil)

func NewJobSeekerStore(db *gorm.DB) JobSeeker {
	return &JobSeekerStore{db: db}
}

func (s *JobSeekerStore) Get(ctx context.Context, id uuid.UUID) (*model.JobSeeker, error) {
	var seeker model.JobSeeker
	if err := firstOrNotFound(s.getDB(ctx).First(&seeker, "id = ?", id)); err != nil {
		return nil, err
	}
	return &seeker, nil
}

func (s *JobSeekerStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.JobSeeker, error) {
	var seeker model.JobSeeker
	if err := firstOrNotFound(s.getDB(ctx).First(&seeker, "user_id = ?", userID)); err != nil {
		return nil, err
	}
	return &seeker, nil
}

func (s *JobSeekerStore) Create(ctx context.Context, seeker model.JobSeeker) (*model.JobSeeker, error) {
	result := s.getDB(ctx).Create(&seeker)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &seeker, nil
}

func (s *JobSeekerStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

type UserStore struct {
	db *gorm.DB
}

var _ User = (*UserStore)(nil)

func NewUserStore(db *gorm.DB) User {
	return &UserStore{db: db}
}

func (s *UserStore) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := firstOrNotFound(s.getDB(ctx).First(&user, "id = ?", id)); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := firstOrNotFound(s.getDB(ctx).First(&user, "email = ?", email)); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user model.User) (*model.User, error) {
	result := s.getDB(ctx).Create(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &user, nil
}

func (s *UserStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

func firstOrNotFound(result *gorm.DB) error {
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return result.Error
	}
	return nil
}
