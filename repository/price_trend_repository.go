// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/lilacbtch/carlytics/models"
	"gorm.io/gorm"
)

// PriceTrendRepositoryImpl implements PriceTrendRepository interface
type PriceTrendRepositoryImpl struct {
	*BaseRepository[models.PriceTrend, models.PriceTrendFilter]
}

// NewPriceTrendRepository creates a new price trend repository
func NewPriceTrendRepository(db *gorm.DB) PriceTrendRepository {
	return &PriceTrendRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PriceTrend, models.PriceTrendFilter](db),
	}
}

// ByVehicleID retrieves the price history series for a vehicle
func (r *PriceTrendRepositoryImpl) ByVehicleID(ctx context.Context, vehicleID string) (*models.PriceTrend, error) {
	filter := models.PriceTrendFilter{VehicleID: &vehicleID}
	trends, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(trends) == 0 {
		return nil, nil
	}
	return trends[0], nil
}

// applyFilter applies filter criteria to a GORM query
func (r *PriceTrendRepositoryImpl) applyFilter(query *gorm.DB, filter models.PriceTrendFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.VehicleID != nil {
		query = query.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Brand != nil {
		query = query.Where("brand = ?", *filter.Brand)
	}
	if filter.Model != nil {
		query = query.Where("model = ?", *filter.Model)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	return query
}

// ByFilter retrieves price trends based on filter criteria
func (r *PriceTrendRepositoryImpl) ByFilter(ctx context.Context, filter models.PriceTrendFilter, orderBy string, limit, offset int) ([]*models.PriceTrend, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PriceTrend{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var trends []*models.PriceTrend
	if err := query.Find(&trends).Error; err != nil {
		return nil, err
	}
	return trends, nil
}

// Count returns the number of price trends matching the filter
func (r *PriceTrendRepositoryImpl) Count(ctx context.Context, filter models.PriceTrendFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PriceTrend{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any price trend matching the filter exists
func (r *PriceTrendRepositoryImpl) Exists(ctx context.Context, filter models.PriceTrendFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
