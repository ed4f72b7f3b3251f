package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"primaryKey;"`
	CreatedAt time.Time `gorm:"not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"type:VARCHAR(255)"`
	Role      string    `gorm:"not null;type:VARCHAR(50)"`
}

type Company struct {
	ID        uuid.UUID `gorm:"primaryKey;"`
	CreatedAt time.Time `gorm:"not null"`
	UserID    uuid.UUID `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	Location  string
	About     string    `gorm:"type:TEXT"`
	Website   string
	JobPosts  []JobPost `gorm:"constraint:OnDelete:CASCADE;"`
}

type JobSeeker struct {
	ID        uuid.UUID `gorm:"primaryKey;"`
	CreatedAt time.Time `gorm:"not null"`
	UserID    uuid.UUID `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	About     string    `gorm:"type:TEXT"`
	Resume    string
}

func (c Company) String() string {
	val, _ := json.Marshal(c)
	return string(val)
}

func (j JobSeeker) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}
