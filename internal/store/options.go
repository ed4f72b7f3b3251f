package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type ApplicationQueryFilter BaseQuerier

func NewApplicationQueryFilter() *ApplicationQueryFilter {
	return &ApplicationQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *ApplicationQueryFilter) ByJobSeekerID(seekerID uuid.UUID) *ApplicationQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("applications.job_seeker_id = ?", seekerID)
	})
	return f
}

func (f *ApplicationQueryFilter) ByJobPostID(jobPostID uuid.UUID) *ApplicationQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("applications.job_post_id = ?", jobPostID)
	})
	return f
}

// ByCompanyID restricts to applications against the company's own postings.
func (f *ApplicationQueryFilter) ByCompanyID(companyID uuid.UUID) *ApplicationQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Joins("JOIN job_posts ON job_posts.id = applications.job_post_id").
			Where("job_posts.company_id = ?", companyID)
	})
	return f
}

func (f *ApplicationQueryFilter) ByStatus(status string) *ApplicationQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("applications.status = ?", status)
	})
	return f
}

type NotificationQueryFilter BaseQuerier

func NewNotificationQueryFilter() *NotificationQueryFilter {
	return &NotificationQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *NotificationQueryFilter) ByUserID(userID uuid.UUID) *NotificationQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ?", userID)
	})
	return f
}

func (f *NotificationQueryFilter) ByUnread() *NotificationQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("read = ?", false)
	})
	return f
}

func (f *NotificationQueryFilter) ByApplicationID(applicationID uuid.UUID) *NotificationQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("application_id = ?", applicationID)
	})
	return f
}

type JobPostQueryFilter BaseQuerier

func NewJobPostQueryFilter() *JobPostQueryFilter {
	return &JobPostQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *JobPostQueryFilter) ByCompanyID(companyID uuid.UUID) *JobPostQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("company_id = ?", companyID)
	})
	return f
}

func (f *JobPostQueryFilter) ByStatus(status string) *JobPostQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}
