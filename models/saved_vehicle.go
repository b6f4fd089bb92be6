// Package models contains domain entities and business models for the valuation service
package models

import (
	"encoding/json"
	"time"
)

// SavedVehicle is a user-saved valuation snapshot. ValuationData carries the
// full valuation result (including the breakdown) as it was computed at save
// time, so later catalog changes do not rewrite history.
type SavedVehicle struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	SavedID        string          `gorm:"size:32;not null;uniqueIndex:uk_saved_vehicles_saved_id" json:"saved_id"`
	UserID         uint            `gorm:"not null;index:idx_saved_vehicles_user_id" json:"user_id"`
	User           User            `gorm:"belongsTo:User;foreignKey:UserID;references:ID" json:"-"`
	VehicleID      string          `gorm:"size:32;not null;index:idx_saved_vehicles_vehicle_id" json:"vehicle_id"`
	EstimatedValue float64         `gorm:"type:numeric(14,2);not null" json:"estimated_value"`
	ValuationData  json.RawMessage `gorm:"type:jsonb" json:"valuation_data"`
	SavedAt        time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_saved_vehicles_saved_at" json:"saved_at"`
}

func (SavedVehicle) TableName() string {
	return "saved_vehicles"
}

// SavedVehicleFilter represents filter criteria for saved valuation queries
type SavedVehicleFilter struct {
	ID          *uint
	SavedID     *string
	UserID      *uint
	VehicleID   *string
	SavedAfter  *time.Time
	SavedBefore *time.Time
}
