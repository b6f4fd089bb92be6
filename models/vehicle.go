// Package models contains domain entities and business models for the valuation service
package models

import (
	"time"
)

// Vehicle categories present in the seeded catalog
const (
	VehicleCategorySedan     = "sedan"
	VehicleCategoryHatchback = "hatchback"
	VehicleCategorySUV       = "suv"
)

// Vehicle is a catalog entry: the list price for a brand/model/year
// combination in the Turkish market, before any depreciation adjustment.
// BasePrice is in TRY.
type Vehicle struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	VehicleID      string    `gorm:"size:32;not null;uniqueIndex:uk_vehicles_vehicle_id" json:"vehicle_id"`
	Brand          string    `gorm:"size:100;not null;index:idx_vehicles_brand" json:"brand"`
	Model          string    `gorm:"size:100;not null;index:idx_vehicles_model" json:"model"`
	Year           int       `gorm:"not null;index:idx_vehicles_year" json:"year"`
	BasePrice      float64   `gorm:"type:numeric(14,2);not null" json:"base_price"`
	AverageMileage int       `gorm:"not null" json:"average_mileage"`
	Category       string    `gorm:"size:30;not null;index:idx_vehicles_category" json:"category"`
	ImageBase64    *string   `gorm:"type:text" json:"image_base64,omitempty"`
	CreatedAt      time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// VehicleFilter represents filter criteria for catalog queries.
// Brand and Model match case-insensitively as substrings; the rest are exact
// or range bounds.
type VehicleFilter struct {
	ID        *uint
	VehicleID *string
	Brand     *string
	Model     *string
	YearMin   *int
	YearMax   *int
	PriceMin  *float64
	PriceMax  *float64
	Category  *string
}
