// Package models contains domain entities and business models for the valuation service
package models

import (
	"time"

	"github.com/lilacbtch/carlytics/utils"
)

// UserSession stores a provider-issued opaque session token. The token is
// minted by the external identity provider during session exchange and is
// never generated locally.
type UserSession struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index:idx_user_sessions_user_id" json:"user_id"`
	User         User      `gorm:"belongsTo:User;foreignKey:UserID;references:ID" json:"user,omitempty"`
	SessionToken string    `gorm:"size:255;not null;uniqueIndex:uk_user_sessions_token" json:"-"` // Never serialize token
	IPAddress    *string   `gorm:"type:inet" json:"ip_address,omitempty"`
	UserAgent    *string   `gorm:"type:text" json:"user_agent,omitempty"`
	IsActive     *bool     `gorm:"default:true;index:idx_user_sessions_is_active" json:"is_active"`
	CreatedAt    time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	ExpiresAt    time.Time `gorm:"not null;index:idx_user_sessions_expires_at" json:"expires_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// UserSessionFilter represents filter criteria for session queries
type UserSessionFilter struct {
	ID            *uint
	UserID        *uint
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	ExpiresAfter  *time.Time
	ExpiresBefore *time.Time
}

func (s *UserSession) IsExpired() bool {
	return utils.IsExpired(s.ExpiresAt)
}

func (s *UserSession) IsValid() bool {
	return utils.IsTrue(s.IsActive) && !s.IsExpired()
}
