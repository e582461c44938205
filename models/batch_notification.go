package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchNotification records a generation job that reached a terminal state
// while the admin was tracking it. It stays listed until dismissed.
type BatchNotification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"session_id"`
	UserID      int        `gorm:"not null;index" json:"user_id"`
	JobID       string     `gorm:"not null;index" json:"job_id"`
	BatchName   string     `json:"batch_name"`
	Status      string     `gorm:"not null" json:"status"` // completed, failed
	Progress    int        `json:"progress"`
	TotalCodes  int        `json:"total_codes"`
	DownloadURL string     `json:"download_url,omitempty"`
	Error       string     `json:"error,omitempty"`
	DismissedAt *time.Time `json:"dismissed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (n *BatchNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
