package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is a signed-in admin. The backend bearer token is stored sealed.
type Session struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       int        `gorm:"not null;index" json:"user_id"`
	Username     string     `gorm:"not null" json:"username"`
	Role         string     `gorm:"not null" json:"role"` // super_admin, admin, user
	BrandID      *int       `json:"brand_id,omitempty"`
	BackendToken []byte     `gorm:"not null" json:"-"`
	Locale       string     `json:"locale"`
	ClientIP     string     `json:"-"`
	UserAgent    string     `json:"-"`
	ExpiresAt    time.Time  `gorm:"not null;index" json:"expires_at"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Active reports whether the session can still authenticate requests.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
