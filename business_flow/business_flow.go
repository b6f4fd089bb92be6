package businessflow

import (
	"encoding/json"
	"time"

	"github.com/lilacbtch/carlytics/app/dto"
	"github.com/lilacbtch/carlytics/models"
	"github.com/lilacbtch/carlytics/utils"
)

// RequestIDKey is the context key the HTTP layer stores the request id under
const RequestIDKey = utils.RequestIDKey

// ClientMetadata holds client information for audit logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// ToAuthUserDTO converts a user model to its API representation
func ToAuthUserDTO(user *models.User) *dto.AuthUserDTO {
	if user == nil {
		return nil
	}
	return &dto.AuthUserDTO{
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		Picture:   user.Picture,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToVehicleDTO converts a catalog vehicle to its API representation
func ToVehicleDTO(vehicle *models.Vehicle) *dto.VehicleDTO {
	if vehicle == nil {
		return nil
	}
	return &dto.VehicleDTO{
		VehicleID:      vehicle.VehicleID,
		Brand:          vehicle.Brand,
		Model:          vehicle.Model,
		Year:           vehicle.Year,
		BasePrice:      vehicle.BasePrice,
		AverageMileage: vehicle.AverageMileage,
		Category:       vehicle.Category,
		ImageBase64:    vehicle.ImageBase64,
		CreatedAt:      vehicle.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToSavedVehicleDTO converts a saved valuation to its API representation.
// The catalog entry is optional; it may have been removed since the save.
func ToSavedVehicleDTO(saved *models.SavedVehicle, vehicle *models.Vehicle) *dto.SavedVehicleDTO {
	if saved == nil {
		return nil
	}
	out := &dto.SavedVehicleDTO{
		SavedID:        saved.SavedID,
		VehicleID:      saved.VehicleID,
		EstimatedValue: saved.EstimatedValue,
		ValuationData:  json.RawMessage(saved.ValuationData),
		SavedAt:        saved.SavedAt.UTC().Format(time.RFC3339),
	}
	if vehicle != nil {
		out.VehicleDetails = ToVehicleDTO(vehicle)
	}
	return out
}
