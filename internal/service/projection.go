package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/auth"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/store/model"
)

// RoundView is one interview round in an application view. Active marks the
// round the company still has to evaluate.
type RoundView struct {
	ID            uuid.UUID  `json:"id"`
	RoundNumber   int        `json:"round_number"`
	Status        string     `json:"status"`
	Feedback      *string    `json:"feedback,omitempty"`
	InterviewDate *time.Time `json:"interview_date,omitempty"`
	Active        bool       `json:"active"`
}

// ApplicationView is the read-only row both list pages render. Stage is
// derived at read time and never stored.
type ApplicationView struct {
	ID            uuid.UUID   `json:"id"`
	JobPostID     uuid.UUID   `json:"job_post_id"`
	JobTitle      string      `json:"job_title"`
	CompanyName   string      `json:"company_name"`
	ApplicantName string      `json:"applicant_name"`
	Status        string      `json:"status"`
	CurrentRound  int         `json:"current_round"`
	Stage         string      `json:"stage"`
	CreatedAt     time.Time   `json:"created_at"`
	Rounds        []RoundView `json:"rounds"`
}

type ProjectionService struct {
	store store.Store
	authz Authz
}

func NewProjectionService(s store.Store, authz Authz) *ProjectionService {
	return &ProjectionService{store: s, authz: authz}
}

// StageLabel renders the display label the tables show for an application.
func StageLabel(status string, currentRound int) string {
	switch status {
	case model.ApplicationStatusPending:
		return "Pending Review"
	case model.ApplicationStatusShortlisted:
		return fmt.Sprintf("Shortlisted (Round %d)", currentRound)
	case model.ApplicationStatusInProgress:
		return fmt.Sprintf("In Progress (Round %d)", currentRound)
	case model.ApplicationStatusSelected:
		return "Selected"
	case model.ApplicationStatusRejected:
		return "Rejected"
	default:
		return status
	}
}

func (p *ProjectionService) ListForSeeker(ctx context.Context, user auth.User) ([]ApplicationView, error) {
	seeker, err := p.authz.SeekerForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	applications, err := p.store.Application().List(ctx, store.NewApplicationQueryFilter().ByJobSeekerID(seeker.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return projectViews(applications), nil
}

func (p *ProjectionService) ListForCompany(ctx context.Context, user auth.User) ([]ApplicationView, error) {
	company, err := p.authz.CompanyForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	applications, err := p.store.Application().List(ctx, store.NewApplicationQueryFilter().ByCompanyID(company.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return projectViews(applications), nil
}

func projectViews(applications model.ApplicationList) []ApplicationView {
	views := make([]ApplicationView, 0, len(applications))
	for _, application := range applications {
		rounds := make([]RoundView, 0, len(application.InterviewRounds))
		for _, round := range application.InterviewRounds {
			rounds = append(rounds, RoundView{
				ID:            round.ID,
				RoundNumber:   round.RoundNumber,
				Status:        round.Status,
				Feedback:      round.Feedback,
				InterviewDate: round.InterviewDate,
				Active: round.RoundNumber == application.CurrentRound &&
					round.Status == model.RoundStatusPending &&
					!model.IsTerminalStatus(application.Status),
			})
		}
		views = append(views, ApplicationView{
			ID:            application.ID,
			JobPostID:     application.JobPostID,
			JobTitle:      application.JobPost.JobTitle,
			CompanyName:   application.JobPost.Company.Name,
			ApplicantName: application.Name,
			Status:        application.Status,
			CurrentRound:  application.CurrentRound,
			Stage:         StageLabel(application.Status, application.CurrentRound),
			CreatedAt:     application.CreatedAt,
			Rounds:        rounds,
		})
	}
	return views
}
