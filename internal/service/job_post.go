package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/auth"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/store/model"
)

type JobPostInput struct {
	JobTitle        string
	EmploymentType  string
	Location        string
	SalaryFrom      int
	SalaryTo        int
	JobDescription  string
	Benefits        string
	ListingDuration int
}

type JobPostService struct {
	store store.Store
	authz Authz
}

func NewJobPostService(s store.Store, authz Authz) *JobPostService {
	return &JobPostService{store: s, authz: authz}
}

// ListJobPosts returns the public board: active postings only.
func (j *JobPostService) ListJobPosts(ctx context.Context) (model.JobPostList, error) {
	return j.store.JobPost().List(ctx, store.NewJobPostQueryFilter().ByStatus(model.JobPostStatusActive))
}

// ListCompanyJobPosts returns all the acting company's postings, expired ones
// included.
func (j *JobPostService) ListCompanyJobPosts(ctx context.Context, user auth.User) (model.JobPostList, error) {
	company, err := j.authz.CompanyForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return j.store.JobPost().List(ctx, store.NewJobPostQueryFilter().ByCompanyID(company.ID))
}

func (j *JobPostService) GetJobPost(ctx context.Context, id uuid.UUID) (*model.JobPost, error) {
	jobPost, err := j.store.JobPost().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobPostNotFound(id)
		}
		return nil, fmt.Errorf("failed to get job post: %w", err)
	}
	return jobPost, nil
}

func (j *JobPostService) CreateJobPost(ctx context.Context, user auth.User, input JobPostInput) (*model.JobPost, error) {
	company, err := j.authz.CompanyForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	jobPost, err := j.store.JobPost().Create(ctx, model.JobPost{
		ID:              uuid.New(),
		CompanyID:       company.ID,
		JobTitle:        input.JobTitle,
		EmploymentType:  input.EmploymentType,
		Location:        input.Location,
		SalaryFrom:      input.SalaryFrom,
		SalaryTo:        input.SalaryTo,
		JobDescription:  input.JobDescription,
		Benefits:        input.Benefits,
		ListingDuration: input.ListingDuration,
		Status:          model.JobPostStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create job post: %w", err)
	}
	return jobPost, nil
}

func (j *JobPostService) UpdateJobPost(ctx context.Context, user auth.User, id uuid.UUID, input JobPostInput) (*model.JobPost, error) {
	jobPost, err := j.GetJobPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := j.authz.CompanyOwnsJobPost(ctx, user, jobPost); err != nil {
		return nil, err
	}

	jobPost.JobTitle = input.JobTitle
	jobPost.EmploymentType = input.EmploymentType
	jobPost.Location = input.Location
	jobPost.SalaryFrom = input.SalaryFrom
	jobPost.SalaryTo = input.SalaryTo
	jobPost.JobDescription = input.JobDescription
	jobPost.Benefits = input.Benefits
	jobPost.ListingDuration = input.ListingDuration

	updated, err := j.store.JobPost().Update(ctx, *jobPost)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobPostNotFound(id)
		}
		return nil, fmt.Errorf("failed to update job post: %w", err)
	}
	return updated, nil
}

func (j *JobPostService) DeleteJobPost(ctx context.Context, user auth.User, id uuid.UUID) error {
	jobPost, err := j.GetJobPost(ctx, id)
	if err != nil {
		return err
	}
	if _, err := j.authz.CompanyOwnsJobPost(ctx, user, jobPost); err != nil {
		return err
	}

	ctx, err = j.store.NewTransactionContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	defer func() { _, _ = store.Rollback(ctx) }()

	if err := j.store.JobPost().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete job post: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
