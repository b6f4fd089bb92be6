// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/lilacbtch/carlytics/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUserID(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// UserSessionRepository defines operations for user sessions
type UserSessionRepository interface {
	Repository[models.UserSession, models.UserSessionFilter]
	ByToken(ctx context.Context, token string) (*models.UserSession, error)
	RevokeByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// VehicleRepository defines operations for the vehicle catalog
type VehicleRepository interface {
	Repository[models.Vehicle, models.VehicleFilter]
	ByVehicleID(ctx context.Context, vehicleID string) (*models.Vehicle, error)
	ByBrandModelYear(ctx context.Context, brand, model string, year int) (*models.Vehicle, error)
	ByBrandModel(ctx context.Context, brand, model string) (*models.Vehicle, error)
	DistinctBrands(ctx context.Context) ([]string, error)
	DistinctModels(ctx context.Context, brand string) ([]string, error)
}

// PriceTrendRepository defines operations for price history series
type PriceTrendRepository interface {
	Repository[models.PriceTrend, models.PriceTrendFilter]
	ByVehicleID(ctx context.Context, vehicleID string) (*models.PriceTrend, error)
}

// SavedVehicleRepository defines operations for saved valuations
type SavedVehicleRepository interface {
	Repository[models.SavedVehicle, models.SavedVehicleFilter]
	BySavedID(ctx context.Context, savedID string) (*models.SavedVehicle, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]*models.SavedVehicle, error)
	DeleteBySavedIDAndUser(ctx context.Context, savedID string, userID uint) (bool, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
