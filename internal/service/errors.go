package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrAccessDenied is deliberately vague: the acting principal learns nothing
// about which resource exists or who owns it.
type ErrAccessDenied struct {
	error
}

func NewErrAccessDenied() *ErrAccessDenied {
	return &ErrAccessDenied{errors.New("access denied")}
}

// ErrInvalidStateTransition names the current stage so the caller can render
// a meaningful message.
type ErrInvalidStateTransition struct {
	error
	Stage string
}

func NewErrInvalidStateTransition(operation, stage string) *ErrInvalidStateTransition {
	return &ErrInvalidStateTransition{
		error: fmt.Errorf("%s is not allowed while the application is in stage %q", operation, stage),
		Stage: stage,
	}
}

type ErrPreconditionFailed struct {
	error
}

func NewErrPreconditionFailed(message string) *ErrPreconditionFailed {
	return &ErrPreconditionFailed{errors.New(message)}
}

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrApplicationNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "application")
}

func NewErrRoundNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "interview round")
}

func NewErrJobPostNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "job post")
}

func NewErrNotificationNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "notification")
}

// ErrConflict signals a lost race against a concurrent mutation of the same
// application. Callers may retry once before surfacing it.
type ErrConflict struct {
	error
}

func NewErrConflict(applicationID uuid.UUID) *ErrConflict {
	return &ErrConflict{fmt.Errorf("application %s was modified concurrently", applicationID)}
}

type ErrAlreadyExists struct {
	error
}

func NewErrDuplicateApplication(jobPostID uuid.UUID) *ErrAlreadyExists {
	return &ErrAlreadyExists{fmt.Errorf("an application for job post %s already exists", jobPostID)}
}
