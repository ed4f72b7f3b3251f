package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	JobPostStatusActive  string = "ACTIVE"
	JobPostStatusExpired string = "EXPIRED"
)

type JobPost struct {
	ID              uuid.UUID `gorm:"primaryKey;"`
	CreatedAt       time.Time `gorm:"not null;index"`
	UpdatedAt       *time.Time
	CompanyID       uuid.UUID `gorm:"not null;index"`
	Company         Company
	JobTitle        string `gorm:"not null"`
	EmploymentType  string `gorm:"type:VARCHAR(50)"`
	Location        string
	SalaryFrom      int
	SalaryTo        int
	JobDescription  string `gorm:"type:TEXT"`
	Benefits        string `gorm:"type:TEXT"`
	ListingDuration int
	Status          string        `gorm:"not null;default:'ACTIVE';type:VARCHAR(50)"`
	Applications    []Application `gorm:"constraint:OnDelete:CASCADE;"`
}

type JobPostList []JobPost

func (j JobPost) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}
