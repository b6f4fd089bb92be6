// Package models contains domain entities and business models for the valuation service
package models

import (
	"time"
)

// User is an account provisioned through the external session-identity
// provider. Users are upserted by email on session exchange; there is no
// password credential stored locally.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:32;not null;uniqueIndex:uk_users_user_id" json:"user_id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Picture   *string   `gorm:"type:text" json:"picture,omitempty"`
	IsActive  *bool     `gorm:"default:true;index:idx_users_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID            *uint
	UserID        *string
	Email         *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
