// Package models contains domain entities and business models for the valuation service
package models

import (
	"encoding/json"
	"time"
)

// PriceTrend holds a vehicle's 12-month price history used by the trends
// endpoint. PriceHistory is a jsonb array of PricePoint records.
type PriceTrend struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	VehicleID    string          `gorm:"size:32;not null;uniqueIndex:uk_price_trends_vehicle_id" json:"vehicle_id"`
	Brand        string          `gorm:"size:100;not null" json:"brand"`
	Model        string          `gorm:"size:100;not null" json:"model"`
	Year         int             `gorm:"not null" json:"year"`
	PriceHistory json.RawMessage `gorm:"type:jsonb;not null" json:"price_history"`
	UpdatedAt    time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (PriceTrend) TableName() string {
	return "price_trends"
}

// PricePoint is one entry of a price history series
type PricePoint struct {
	Date    time.Time `json:"date"`
	Price   float64   `json:"price"`
	Mileage int       `json:"mileage"`
}

// PriceTrendFilter represents filter criteria for price trend queries
type PriceTrendFilter struct {
	ID        *uint
	VehicleID *string
	Brand     *string
	Model     *string
	Year      *int
}
