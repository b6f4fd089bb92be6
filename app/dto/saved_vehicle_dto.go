// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "encoding/json"

// SaveVehicleRequest stores a valuation snapshot for the calling user
type SaveVehicleRequest struct {
	VehicleID      string          `json:"vehicle_id" validate:"required,max=32"`
	EstimatedValue float64         `json:"estimated_value" validate:"required,gt=0"`
	ValuationData  json.RawMessage `json:"valuation_data" validate:"required"`
}

// SaveVehicleResponse confirms a stored valuation
type SaveVehicleResponse struct {
	Message string `json:"message"`
	SavedID string `json:"saved_id"`
}

// SavedVehicleDTO represents one saved valuation, enriched with the catalog
// entry it was computed from when that entry still exists.
type SavedVehicleDTO struct {
	SavedID        string          `json:"saved_id"`
	VehicleID      string          `json:"vehicle_id"`
	EstimatedValue float64         `json:"estimated_value"`
	ValuationData  json.RawMessage `json:"valuation_data,omitempty"`
	SavedAt        string          `json:"saved_at"`
	VehicleDetails *VehicleDTO     `json:"vehicle_details,omitempty"`
}

// ListSavedVehiclesResponse wraps a user's saved valuations
type ListSavedVehiclesResponse struct {
	Items []SavedVehicleDTO `json:"items"`
}

// DeleteSavedVehicleResponse confirms removal of a saved valuation
type DeleteSavedVehicleResponse struct {
	Message string `json:"message"`
}
