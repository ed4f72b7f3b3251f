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

// ApplyInput is the profile snapshot submitted with an application. Empty
// fields fall back to the seeker's stored profile.
type ApplyInput struct {
	Name   string
	About  string
	Resume string
}

// ApplicationService is the lifecycle engine. Every transition runs as one
// transaction: the state is re-read inside it, the guard is evaluated against
// that fresh copy, the mutation is a compare-and-swap carrying that copy's
// status, and it commits together with the notification it produced. A lost
// swap surfaces as ErrConflict.
type ApplicationService struct {
	store   store.Store
	authz   Authz
	emitter Emitter
	events  *events.EventProducer
	log     *zap.SugaredLogger
}

func NewApplicationService(s store.Store, authz Authz, emitter Emitter, ep *events.EventProducer) *ApplicationService {
	return &ApplicationService{
		store:   s,
		authz:   authz,
		emitter: emitter,
		events:  ep,
		log:     zap.S().Named("application_service"),
	}
}

func (a *ApplicationService) Apply(ctx context.Context, user auth.User, jobPostID uuid.UUID, input ApplyInput) (*model.Application, error) {
	seeker, err := a.authz.SeekerForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	jobPost, err := a.store.JobPost().Get(ctx, jobPostID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobPostNotFound(jobPostID)
		}
		return nil, fmt.Errorf("failed to get job post: %w", err)
	}
	if jobPost.Status != model.JobPostStatusActive {
		return nil, NewErrPreconditionFailed("job post is no longer accepting applications")
	}

	// profile snapshot, falling back to the stored seeker profile
	name := input.Name
	if name == "" {
		name = seeker.Name
	}
	about := input.About
	if about == "" {
		about = seeker.About
	}
	resume := input.Resume
	if resume == "" {
		resume = seeker.Resume
	}

	application, err := a.store.Application().Create(ctx, model.Application{
		ID:          uuid.New(),
		JobPostID:   jobPostID,
		JobSeekerID: seeker.ID,
		Status:      model.ApplicationStatusPending,
		Name:        name,
		About:       about,
		Resume:      resume,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrDuplicateApplication(jobPostID)
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	metrics.IncreaseLifecycleTransitionMetric("apply", application.Status)
	a.pushEvent(application)
	return application, nil
}

func (a *ApplicationService) Shortlist(ctx context.Context, user auth.User, id uuid.UUID) (*model.Application, error) {
	ctx, err := a.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	defer func() { _, _ = store.Rollback(ctx) }()

	application, err := a.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := a.authz.CompanyOwnsApplication(ctx, user, application); err != nil {
		return nil, err
	}

	if application.Status != model.ApplicationStatusPending {
		return nil, NewErrInvalidStateTransition("shortlist", application.Status)
	}

	advanced, err := a.store.Application().CompareAndAdvance(ctx, id, 0, model.ApplicationStatusPending, model.ApplicationStatusShortlisted)
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	if !advanced {
		return nil, NewErrConflict(id)
	}

	if _, err := a.store.InterviewRound().Create(ctx, model.InterviewRound{
		ID:            uuid.New(),
		ApplicationID: id,
		RoundNumber:   1,
		Status:        model.RoundStatusPending,
	}); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrConflict(id)
		}
		return nil, fmt.Errorf("failed to create interview round: %w", err)
	}

	if err := a.notifySeeker(ctx, application,
		"Application shortlisted",
		fmt.Sprintf("You have been shortlisted for Round 1 of %s at %s.", application.JobPost.JobTitle, application.JobPost.Company.Name),
		model.NotificationKindShortlisted,
	); err != nil {
		return nil, err
	}

	return a.finish(ctx, "shortlist", id)
}

func (a *ApplicationService) EvaluateRound(ctx context.Context, user auth.User, roundID uuid.UUID, outcome string, feedback *string) (*model.InterviewRound, error) {
	if outcome != model.RoundStatusQualified && outcome != model.RoundStatusNotQualified {
		return nil, NewErrPreconditionFailed(fmt.Sprintf("outcome must be %s or %s", model.RoundStatusQualified, model.RoundStatusNotQualified))
	}

	ctx, err := a.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	defer func() { _, _ = store.Rollback(ctx) }()

	round, err := a.store.InterviewRound().Get(ctx, roundID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrRoundNotFound(roundID)
		}
		return nil, fmt.Errorf("failed to get interview round: %w", err)
	}

	application, err := a.getApplication(ctx, round.ApplicationID)
	if err != nil {
		return nil, err
	}
	if _, err := a.authz.CompanyOwnsApplication(ctx, user, application); err != nil {
		return nil, err
	}

	// the status is re-checked on the copy read inside this transaction, so
	// a racing evaluator that already closed the application loses here
	if application.Status != model.ApplicationStatusShortlisted && application.Status != model.ApplicationStatusInProgress {
		return nil, NewErrInvalidStateTransition("evaluate round", application.Status)
	}
	if round.Status != model.RoundStatusPending {
		return nil, NewErrPreconditionFailed(fmt.Sprintf("round %d has already been evaluated", round.RoundNumber))
	}

	round, err = a.store.InterviewRound().UpdateOutcome(ctx, roundID, outcome, feedback)
	if err != nil {
		if errors.Is(err, store.ErrConcurrentUpdate) {
			return nil, NewErrConflict(application.ID)
		}
		return nil, fmt.Errorf("failed to update interview round: %w", err)
	}

	switch outcome {
	case model.RoundStatusQualified:
		if application.Status == model.ApplicationStatusShortlisted {
			moved, err := a.store.Application().UpdateStatus(ctx, application.ID, model.ApplicationStatusShortlisted, model.ApplicationStatusInProgress)
			if err != nil {
				return nil, fmt.Errorf("failed to update application: %w", err)
			}
			if !moved {
				return nil, NewErrConflict(application.ID)
			}
		}
		if err := a.notifySeeker(ctx, application,
			fmt.Sprintf("Round %d result", round.RoundNumber),
			fmt.Sprintf("You qualified Round %d of %s at %s.", round.RoundNumber, application.JobPost.JobTitle, application.JobPost.Company.Name),
			model.NotificationKindRoundResult,
		); err != nil {
			return nil, err
		}
	case model.RoundStatusNotQualified:
		moved, err := a.store.Application().UpdateStatus(ctx, application.ID, application.Status, model.ApplicationStatusRejected)
		if err != nil {
			return nil, fmt.Errorf("failed to update application: %w", err)
		}
		if !moved {
			return nil, NewErrConflict(application.ID)
		}
		if err := a.notifySeeker(ctx, application,
			fmt.Sprintf("Round %d result", round.RoundNumber),
			fmt.Sprintf("You did not qualify Round %d of %s at %s.", round.RoundNumber, application.JobPost.JobTitle, application.JobPost.Company.Name),
			model.NotificationKindRoundResult,
		); err != nil {
			return nil, err
		}
	}

	if _, err := a.finish(ctx, "evaluate_round", application.ID); err != nil {
		return nil, err
	}
	return round, nil
}

func (a *ApplicationService) Advance(ctx context.Context, user auth.User, id uuid.UUID) (*model.Application, error) {
	ctx, err := a.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	defer func() { _, _ = store.Rollback(ctx) }()

	application, err := a.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := a.authz.CompanyOwnsApplication(ctx, user, application); err != nil {
		return nil, err
	}

	if application.Status != model.ApplicationStatusShortlisted && application.Status != model.ApplicationStatusInProgress {
		return nil, NewErrInvalidStateTransition("advance", application.Status)
	}

	if len(application.InterviewRounds) == 0 {
		return nil, NewErrPreconditionFailed("no interview round to advance from")
	}
	latest := application.InterviewRounds[len(application.InterviewRounds)-1]
	if latest.Status != model.RoundStatusQualified {
		return nil, NewErrPreconditionFailed(fmt.Sprintf("round %d has not been qualified yet", latest.RoundNumber))
	}

	advanced, err := a.store.Application().CompareAndAdvance(ctx, id, application.CurrentRound, application.Status, model.ApplicationStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	if !advanced {
		return nil, NewErrConflict(id)
	}

	nextRound := application.CurrentRound + 1
	if _, err := a.store.InterviewRound().Create(ctx, model.InterviewRound{
		ID:            uuid.New(),
		ApplicationID: id,
		RoundNumber:   nextRound,
		Status:        model.RoundStatusPending,
	}); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrConflict(id)
		}
		return nil, fmt.Errorf("failed to create interview round: %w", err)
	}

	if err := a.notifySeeker(ctx, application,
		fmt.Sprintf("Advanced to Round %d", nextRound),
		fmt.Sprintf("You advanced to Round %d of %s at %s.", nextRound, application.JobPost.JobTitle, application.JobPost.Company.Name),
		model.NotificationKindNextRound,
	); err != nil {
		return nil, err
	}

	return a.finish(ctx, "advance", id)
}

func (a *ApplicationService) Select(ctx context.Context, user auth.User, id uuid.UUID) (*model.Application, error) {
	ctx, err := a.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	defer func() { _, _ = store.Rollback(ctx) }()

	application, err := a.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := a.authz.CompanyOwnsApplication(ctx, user, application); err != nil {
		return nil, err
	}

	if application.Status != model.ApplicationStatusShortlisted && application.Status != model.ApplicationStatusInProgress {
		return nil, NewErrInvalidStateTransition("select", application.Status)
	}

	moved, err := a.store.Application().UpdateStatus(ctx, id, application.Status, model.ApplicationStatusSelected)
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	if !moved {
		return nil, NewErrConflict(id)
	}

	if err := a.notifySeeker(ctx, application,
		"Congratulations, you have been selected!",
		fmt.Sprintf("You have been selected for %s at %s.", application.JobPost.JobTitle, application.JobPost.Company.Name),
		model.NotificationKindSelected,
	); err != nil {
		return nil, err
	}

	return a.finish(ctx, "select", id)
}

func (a *ApplicationService) Reject(ctx context.Context, user auth.User, id uuid.UUID) (*model.Application, error) {
	ctx, err := a.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	defer func() { _, _ = store.Rollback(ctx) }()

	application, err := a.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := a.authz.CompanyOwnsApplication(ctx, user, application); err != nil {
		return nil, err
	}

	// a PENDING application is not rejectable, it either gets shortlisted or
	// withdrawn by the seeker
	if application.Status == model.ApplicationStatusPending || model.IsTerminalStatus(application.Status) {
		return nil, NewErrInvalidStateTransition("reject", application.Status)
	}

	moved, err := a.store.Application().UpdateStatus(ctx, id, application.Status, model.ApplicationStatusRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	if !moved {
		return nil, NewErrConflict(id)
	}

	if err := a.notifySeeker(ctx, application,
		"Application update",
		fmt.Sprintf("Your application for %s at %s was not successful this time.", application.JobPost.JobTitle, application.JobPost.Company.Name),
		model.NotificationKindRejected,
	); err != nil {
		return nil, err
	}

	return a.finish(ctx, "reject", id)
}

func (a *ApplicationService) Withdraw(ctx context.Context, user auth.User, id uuid.UUID) error {
	ctx, err := a.store.NewTransactionContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	defer func() { _, _ = store.Rollback(ctx) }()

	application, err := a.getApplication(ctx, id)
	if err != nil {
		return err
	}
	seeker, err := a.authz.SeekerOwnsApplication(ctx, user, application)
	if err != nil {
		return err
	}

	if application.Status == model.ApplicationStatusSelected {
		return NewErrInvalidStateTransition("withdraw", application.Status)
	}

	deleted, err := a.store.Application().Delete(ctx, id, application.Status)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if !deleted {
		return NewErrConflict(id)
	}

	// the company is told about the withdrawal, but the notification must not
	// back-reference the application row that is going away
	company, err := a.store.Company().Get(ctx, application.JobPost.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to get company: %w", err)
	}
	if _, err := a.emitter.Emit(ctx, company.UserID,
		"Application withdrawn",
		fmt.Sprintf("%s withdrew their application for %s.", seeker.Name, application.JobPost.JobTitle),
		model.NotificationKindWithdrawn,
		nil,
	); err != nil {
		return err
	}

	if _, err := store.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.IncreaseLifecycleTransitionMetric("withdraw", "WITHDRAWN")
	a.pushEvent(application)
	return nil
}

func (a *ApplicationService) getApplication(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	application, err := a.store.Application().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrApplicationNotFound(id)
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return application, nil
}

func (a *ApplicationService) notifySeeker(ctx context.Context, application *model.Application, title, message, kind string) error {
	seeker, err := a.store.JobSeeker().Get(ctx, application.JobSeekerID)
	if err != nil {
		return fmt.Errorf("failed to get job seeker: %w", err)
	}
	applicationID := application.ID
	if _, err := a.emitter.Emit(ctx, seeker.UserID, title, message, kind, &applicationID); err != nil {
		return err
	}
	return nil
}

// finish re-reads the mutated application, commits the transaction and pushes
// the view-refresh event.
func (a *ApplicationService) finish(ctx context.Context, operation string, id uuid.UUID) (*model.Application, error) {
	application, err := a.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.IncreaseLifecycleTransitionMetric(operation, application.Status)
	a.pushEvent(application)
	return application, nil
}

func (a *ApplicationService) pushEvent(application *model.Application) {
	data, err := json.Marshal(events.ApplicationEvent{
		ApplicationID: application.ID.String(),
		JobPostID:     application.JobPostID.String(),
		Status:        application.Status,
		CurrentRound:  application.CurrentRound,
	})
	if err != nil {
		a.log.Warnw("failed to marshal application event", "error", err)
		return
	}
	if err := a.events.Write(context.TODO(), events.ApplicationMessageKind, bytes.NewReader(data)); err != nil {
		a.log.Warnw("failed to push application event", "error", err)
	}
}
