package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/service"
	"github.com/hiredeck/hiredeck/internal/store/model"
)

type RoundReply struct {
	ID            uuid.UUID  `json:"id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	RoundNumber   int        `json:"round_number"`
	Status        string     `json:"status"`
	Feedback      *string    `json:"feedback,omitempty"`
	InterviewDate *time.Time `json:"interview_date,omitempty"`
}

type ApplicationReply struct {
	ID           uuid.UUID    `json:"id"`
	JobPostID    uuid.UUID    `json:"job_post_id"`
	Status       string       `json:"status"`
	CurrentRound int          `json:"current_round"`
	Stage        string       `json:"stage"`
	Name         string       `json:"name"`
	About        string       `json:"about,omitempty"`
	Resume       string       `json:"resume,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	Rounds       []RoundReply `json:"rounds"`
}

type JobPostReply struct {
	ID              uuid.UUID `json:"id"`
	CompanyID       uuid.UUID `json:"company_id"`
	CompanyName     string    `json:"company_name,omitempty"`
	JobTitle        string    `json:"job_title"`
	EmploymentType  string    `json:"employment_type,omitempty"`
	Location        string    `json:"location,omitempty"`
	SalaryFrom      int       `json:"salary_from,omitempty"`
	SalaryTo        int       `json:"salary_to,omitempty"`
	JobDescription  string    `json:"job_description,omitempty"`
	Benefits        string    `json:"benefits,omitempty"`
	ListingDuration int       `json:"listing_duration,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type NotificationReply struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Message       string     `json:"message,omitempty"`
	Kind          string     `json:"kind"`
	Read          bool       `json:"read"`
	ApplicationID *uuid.UUID `json:"application_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func roundToApi(round model.InterviewRound) RoundReply {
	return RoundReply{
		ID:            round.ID,
		ApplicationID: round.ApplicationID,
		RoundNumber:   round.RoundNumber,
		Status:        round.Status,
		Feedback:      round.Feedback,
		InterviewDate: round.InterviewDate,
	}
}

func applicationToApi(application model.Application) ApplicationReply {
	rounds := make([]RoundReply, 0, len(application.InterviewRounds))
	for _, round := range application.InterviewRounds {
		rounds = append(rounds, roundToApi(round))
	}
	return ApplicationReply{
		ID:           application.ID,
		JobPostID:    application.JobPostID,
		Status:       application.Status,
		CurrentRound: application.CurrentRound,
		Stage:        service.StageLabel(application.Status, application.CurrentRound),
		Name:         application.Name,
		About:        application.About,
		Resume:       application.Resume,
		CreatedAt:    application.CreatedAt,
		Rounds:       rounds,
	}
}

func jobPostToApi(jobPost model.JobPost) JobPostReply {
	return JobPostReply{
		ID:              jobPost.ID,
		CompanyID:       jobPost.CompanyID,
		CompanyName:     jobPost.Company.Name,
		JobTitle:        jobPost.JobTitle,
		EmploymentType:  jobPost.EmploymentType,
		Location:        jobPost.Location,
		SalaryFrom:      jobPost.SalaryFrom,
		SalaryTo:        jobPost.SalaryTo,
		JobDescription:  jobPost.JobDescription,
		Benefits:        jobPost.Benefits,
		ListingDuration: jobPost.ListingDuration,
		Status:          jobPost.Status,
		CreatedAt:       jobPost.CreatedAt,
	}
}

func jobPostListToApi(jobPosts model.JobPostList) []JobPostReply {
	replies := make([]JobPostReply, 0, len(jobPosts))
	for _, jobPost := range jobPosts {
		replies = append(replies, jobPostToApi(jobPost))
	}
	return replies
}

func notificationListToApi(notifications model.NotificationList) []NotificationReply {
	replies := make([]NotificationReply, 0, len(notifications))
	for _, notification := range notifications {
		replies = append(replies, NotificationReply{
			ID:            notification.ID,
			Title:         notification.Title,
			Message:       notification.Message,
			Kind:          notification.Kind,
			Read:          notification.Read,
			ApplicationID: notification.ApplicationID,
			CreatedAt:     notification.CreatedAt,
		})
	}
	return replies
}
