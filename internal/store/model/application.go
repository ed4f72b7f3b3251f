package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus values. SELECTED and REJECTED are terminal: once an
// application reaches either, no further transition is legal.
const (
	ApplicationStatusPending     string = "PENDING"
	ApplicationStatusShortlisted string = "SHORTLISTED"
	ApplicationStatusInProgress  string = "IN_PROGRESS"
	ApplicationStatusSelected    string = "SELECTED"
	ApplicationStatusRejected    string = "REJECTED"
)

// InterviewRoundStatus values.
const (
	RoundStatusPending      string = "PENDING"
	RoundStatusQualified    string = "QUALIFIED"
	RoundStatusNotQualified string = "NOT_QUALIFIED"
)

// Application is a job seeker's submission to one job post. Name, About and
// Resume are a snapshot of the seeker's profile taken at apply time, not a
// live reference. CurrentRound always equals the highest round number among
// the application's interview rounds, or 0 while PENDING.
type Application struct {
	ID              uuid.UUID `gorm:"primaryKey;"`
	CreatedAt       time.Time `gorm:"not null;index"`
	UpdatedAt       *time.Time
	JobPostID       uuid.UUID `gorm:"not null;uniqueIndex:applications_job_post_seeker"`
	JobPost         JobPost
	JobSeekerID     uuid.UUID `gorm:"not null;uniqueIndex:applications_job_post_seeker;index"`
	Status          string    `gorm:"not null;default:'PENDING';type:VARCHAR(50)"`
	CurrentRound    int       `gorm:"not null;default:0"`
	Name            string    `gorm:"not null"`
	About           string    `gorm:"type:TEXT"`
	Resume          string
	InterviewRounds []InterviewRound `gorm:"constraint:OnDelete:CASCADE;"`
	Notifications   []Notification   `gorm:"constraint:OnDelete:CASCADE;"`
}

// InterviewRound is one numbered evaluation stage within an application.
// Round numbers are assigned by the lifecycle engine, never by clients, and
// are unique per application.
type InterviewRound struct {
	ID            uuid.UUID `gorm:"primaryKey;"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     *time.Time
	ApplicationID uuid.UUID `gorm:"not null;uniqueIndex:rounds_application_number"`
	RoundNumber   int       `gorm:"not null;uniqueIndex:rounds_application_number"`
	Status        string    `gorm:"not null;default:'PENDING';type:VARCHAR(50)"`
	Feedback      *string   `gorm:"type:TEXT"`
	InterviewDate *time.Time
}

type ApplicationList []Application

func IsTerminalStatus(status string) bool {
	return status == ApplicationStatusSelected || status == ApplicationStatusRejected
}

func (a Application) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}

func (r InterviewRound) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}
