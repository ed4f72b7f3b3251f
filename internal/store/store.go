package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Application() Application
	InterviewRound() InterviewRound
	Notification() Notification
	JobPost() JobPost
	Company() Company
	JobSeeker() JobSeeker
	User() User
	Statistics(ctx context.Context) (*Statistics, error)
	InitialMigration() error
	Seed() error
	Close() error
}

type DataStore struct {
	db             *gorm.DB
	application    Application
	interviewRound InterviewRound
	notification   Notification
	jobPost        JobPost
	company        Company
	jobSeeker      JobSeeker
	user           User
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:             db,
		application:    NewApplicationStore(db),
		interviewRound: NewInterviewRoundStore(db),
		notification:   NewNotificationStore(db),
		jobPost:        NewJobPostStore(db),
		company:        NewCompanyStore(db),
		jobSeeker:      NewJobSeekerStore(db),
		user:           NewUserStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Application() Application {
	return s.application
}

func (s *DataStore) InterviewRound() InterviewRound {
	return s.interviewRound
}

func (s *DataStore) Notification() Notification {
	return s.notification
}

func (s *DataStore) JobPost() JobPost {
	return s.jobPost
}

func (s *DataStore) Company() Company {
	return s.company
}

func (s *DataStore) JobSeeker() JobSeeker {
	return s.jobSeeker
}

func (s *DataStore) User() User {
	return s.user
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.Company{},
		&model.JobSeeker{},
		&model.JobPost{},
		&model.Application{},
		&model.InterviewRound{},
		&model.Notification{},
	)
}

// Seed creates a demo company and job seeker so a fresh install has
// something to click on.
func (s *DataStore) Seed() error {
	tx, err := newTransaction(s.db)
	if err != nil {
		return err
	}

	companyUser := model.User{
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte("seed-company-user")),
		CreatedAt: time.Now(),
		Email:     "hiring@example.com",
		Name:      "Example Hiring",
		Role:      "COMPANY",
	}
	seekerUser := model.User{
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte("seed-seeker-user")),
		CreatedAt: time.Now(),
		Email:     "seeker@example.com",
		Name:      "Example Seeker",
		Role:      "JOB_SEEKER",
	}

	for _, u := range []model.User{companyUser, seekerUser} {
		if err := tx.tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&u).Error; err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	company := model.Company{
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte("seed-company")),
		CreatedAt: time.Now(),
		UserID:    companyUser.ID,
		Name:      "Example Inc",
		Location:  "Remote",
		About:     "Example company used for local development.",
	}
	if err := tx.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&company).Error; err != nil {
		_ = tx.Rollback()
		return err
	}

	seeker := model.JobSeeker{
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte("seed-seeker")),
		CreatedAt: time.Now(),
		UserID:    seekerUser.ID,
		Name:      "Example Seeker",
		About:     "Example job seeker used for local development.",
		Resume:    "https://example.com/resume.pdf",
	}
	if err := tx.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&seeker).Error; err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
