// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lilacbtch/carlytics/models"
	"gorm.io/gorm"
)

// VehicleRepositoryImpl implements VehicleRepository interface
type VehicleRepositoryImpl struct {
	*BaseRepository[models.Vehicle, models.VehicleFilter]
}

// NewVehicleRepository creates a new vehicle catalog repository
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &VehicleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Vehicle, models.VehicleFilter](db),
	}
}

// ByVehicleID retrieves a catalog entry by public vehicle id
func (r *VehicleRepositoryImpl) ByVehicleID(ctx context.Context, vehicleID string) (*models.Vehicle, error) {
	filter := models.VehicleFilter{VehicleID: &vehicleID}
	vehicles, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, nil
	}
	return vehicles[0], nil
}

// ByBrandModelYear retrieves the catalog entry matching brand, model and
// year. Brand and model match case-insensitively but exactly.
func (r *VehicleRepositoryImpl) ByBrandModelYear(ctx context.Context, brand, model string, year int) (*models.Vehicle, error) {
	db := r.getDB(ctx)

	var vehicle models.Vehicle
	err := db.Where("LOWER(brand) = LOWER(?) AND LOWER(model) = LOWER(?) AND year = ?",
		brand, model, year).
		First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find vehicle by brand/model/year: %w", err)
	}

	return &vehicle, nil
}

// ByBrandModel retrieves the closest catalog entry for a brand and model
// when no exact year match exists. The newest model year wins.
func (r *VehicleRepositoryImpl) ByBrandModel(ctx context.Context, brand, model string) (*models.Vehicle, error) {
	db := r.getDB(ctx)

	var vehicle models.Vehicle
	err := db.Where("LOWER(brand) = LOWER(?) AND LOWER(model) = LOWER(?)", brand, model).
		Order("year DESC").
		First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find vehicle by brand/model: %w", err)
	}

	return &vehicle, nil
}

// DistinctBrands returns the sorted set of brands present in the catalog
func (r *VehicleRepositoryImpl) DistinctBrands(ctx context.Context) ([]string, error) {
	db := r.getDB(ctx)

	var brands []string
	err := db.Model(&models.Vehicle{}).
		Distinct("brand").
		Order("brand ASC").
		Pluck("brand", &brands).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct brands: %w", err)
	}
	return brands, nil
}

// DistinctModels returns the sorted set of models for a brand
// (case-insensitive brand match)
func (r *VehicleRepositoryImpl) DistinctModels(ctx context.Context, brand string) ([]string, error) {
	db := r.getDB(ctx)

	var modelNames []string
	err := db.Model(&models.Vehicle{}).
		Where("LOWER(brand) = LOWER(?)", brand).
		Distinct("model").
		Order("model ASC").
		Pluck("model", &modelNames).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct models: %w", err)
	}
	return modelNames, nil
}

// applyFilter applies filter criteria to a GORM query. Brand and model are
// case-insensitive substring matches; the rest are exact or range bounds.
func (r *VehicleRepositoryImpl) applyFilter(query *gorm.DB, filter models.VehicleFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.VehicleID != nil {
		query = query.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Brand != nil {
		query = query.Where("brand ILIKE ?", "%"+*filter.Brand+"%")
	}
	if filter.Model != nil {
		query = query.Where("model ILIKE ?", "%"+*filter.Model+"%")
	}
	if filter.YearMin != nil {
		query = query.Where("year >= ?", *filter.YearMin)
	}
	if filter.YearMax != nil {
		query = query.Where("year <= ?", *filter.YearMax)
	}
	if filter.PriceMin != nil {
		query = query.Where("base_price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("base_price <= ?", *filter.PriceMax)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	return query
}

// ByFilter retrieves catalog entries based on filter criteria
func (r *VehicleRepositoryImpl) ByFilter(ctx context.Context, filter models.VehicleFilter, orderBy string, limit, offset int) ([]*models.Vehicle, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Vehicle{}), filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var vehicles []*models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Count returns the number of catalog entries matching the filter
func (r *VehicleRepositoryImpl) Count(ctx context.Context, filter models.VehicleFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Vehicle{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any catalog entry matching the filter exists
func (r *VehicleRepositoryImpl) Exists(ctx context.Context, filter models.VehicleFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
