package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification kinds, one per lifecycle transition that targets a user.
const (
	NotificationKindShortlisted string = "SHORTLISTED"
	NotificationKindRoundResult string = "ROUND_RESULT"
	NotificationKindNextRound   string = "NEXT_ROUND"
	NotificationKindSelected    string = "SELECTED"
	NotificationKindRejected    string = "REJECTED"
	NotificationKindWithdrawn   string = "WITHDRAWN"
)

// Notification rows are immutable except for the Read flag. ApplicationID is
// a weak back-reference: the row is cleaned up by cascade when the
// application is withdrawn.
type Notification struct {
	ID            uuid.UUID `gorm:"primaryKey;"`
	CreatedAt     time.Time `gorm:"not null;index"`
	UpdatedAt     *time.Time
	UserID        uuid.UUID `gorm:"not null;index"`
	Title         string    `gorm:"not null"`
	Message       string    `gorm:"type:TEXT"`
	Kind          string    `gorm:"not null;type:VARCHAR(50)"`
	Read          bool      `gorm:"not null;default:false"`
	ApplicationID *uuid.UUID `gorm:"index"`
}

type NotificationList []Notification

func (n Notification) String() string {
	val, _ := json.Marshal(n)
	return string(val)
}
