package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiredeck/hiredeck/internal/auth"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/store/model"
)

// Authz is the authorization guard invoked before every lifecycle
// transition. Ownership is re-derived from the persisted relation graph at
// call time; client-supplied ownership claims are never trusted.
type Authz interface {
	// CompanyForUser resolves the company profile of the acting user, or
	// denies if the user is not a company.
	CompanyForUser(ctx context.Context, user auth.User) (*model.Company, error)

	// SeekerForUser resolves the job seeker profile of the acting user, or
	// denies if the user is not a job seeker.
	SeekerForUser(ctx context.Context, user auth.User) (*model.JobSeeker, error)

	// CompanyOwnsApplication checks the acting company owns the job post the
	// application targets.
	CompanyOwnsApplication(ctx context.Context, user auth.User, application *model.Application) (*model.Company, error)

	// SeekerOwnsApplication checks the acting job seeker submitted the
	// application.
	SeekerOwnsApplication(ctx context.Context, user auth.User, application *model.Application) (*model.JobSeeker, error)

	// CompanyOwnsJobPost checks the acting company owns the job post.
	CompanyOwnsJobPost(ctx context.Context, user auth.User, jobPost *model.JobPost) (*model.Company, error)
}

type AuthzService struct {
	s store.Store
}

// Make sure we conform to Authz interface
var _ Authz = (*AuthzService)(nil)

func NewAuthzService(s store.Store) *AuthzService {
	return &AuthzService{s: s}
}

func (a *AuthzService) CompanyForUser(ctx context.Context, user auth.User) (*model.Company, error) {
	if user.Role != auth.RoleCompany {
		return nil, NewErrAccessDenied()
	}

	company, err := a.s.Company().GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAccessDenied()
		}
		return nil, fmt.Errorf("failed to resolve company profile: %w", err)
	}
	return company, nil
}

func (a *AuthzService) SeekerForUser(ctx context.Context, user auth.User) (*model.JobSeeker, error) {
	if user.Role != auth.RoleJobSeeker {
		return nil, NewErrAccessDenied()
	}

	seeker, err := a.s.JobSeeker().GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAccessDenied()
		}
		return nil, fmt.Errorf("failed to resolve job seeker profile: %w", err)
	}
	return seeker, nil
}

func (a *AuthzService) CompanyOwnsApplication(ctx context.Context, user auth.User, application *model.Application) (*model.Company, error) {
	company, err := a.CompanyForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	if application.JobPost.CompanyID != company.ID {
		return nil, NewErrAccessDenied()
	}
	return company, nil
}

func (a *AuthzService) SeekerOwnsApplication(ctx context.Context, user auth.User, application *model.Application) (*model.JobSeeker, error) {
	seeker, err := a.SeekerForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	if application.JobSeekerID != seeker.ID {
		return nil, NewErrAccessDenied()
	}
	return seeker, nil
}

func (a *AuthzService) CompanyOwnsJobPost(ctx context.Context, user auth.User, jobPost *model.JobPost) (*model.Company, error) {
	company, err := a.CompanyForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	if jobPost.CompanyID != company.ID {
		return nil, NewErrAccessDenied()
	}
	return company, nil
}
