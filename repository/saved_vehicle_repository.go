// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/lilacbtch/carlytics/models"
	"gorm.io/gorm"
)

// SavedVehicleRepositoryImpl implements SavedVehicleRepository interface
type SavedVehicleRepositoryImpl struct {
	*BaseRepository[models.SavedVehicle, models.SavedVehicleFilter]
}

// NewSavedVehicleRepository creates a new saved valuation repository
func NewSavedVehicleRepository(db *gorm.DB) SavedVehicleRepository {
	return &SavedVehicleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SavedVehicle, models.SavedVehicleFilter](db),
	}
}

// BySavedID retrieves a saved valuation by public saved id
func (r *SavedVehicleRepositoryImpl) BySavedID(ctx context.Context, savedID string) (*models.SavedVehicle, error) {
	filter := models.SavedVehicleFilter{SavedID: &savedID}
	saved, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(saved) == 0 {
		return nil, nil
	}
	return saved[0], nil
}

// ListByUser returns a user's saved valuations, newest first
func (r *SavedVehicleRepositoryImpl) ListByUser(ctx context.Context, userID uint, limit int) ([]*models.SavedVehicle, error) {
	filter := models.SavedVehicleFilter{UserID: &userID}
	return r.ByFilter(ctx, filter, "saved_at DESC", limit, 0)
}

// DeleteBySavedIDAndUser removes a saved valuation scoped to its owner.
// Returns false when nothing matched, so callers can surface a not-found.
func (r *SavedVehicleRepositoryImpl) DeleteBySavedIDAndUser(ctx context.Context, savedID string, userID uint) (bool, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return false, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Where("saved_id = ? AND user_id = ?", savedID, userID).
		Delete(&models.SavedVehicle{})
	if result.Error != nil {
		err = fmt.Errorf("failed to delete saved vehicle: %w", result.Error)
		return false, err
	}

	return result.RowsAffected > 0, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *SavedVehicleRepositoryImpl) applyFilter(query *gorm.DB, filter models.SavedVehicleFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.SavedID != nil {
		query = query.Where("saved_id = ?", *filter.SavedID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.VehicleID != nil {
		query = query.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.SavedAfter != nil {
		query = query.Where("saved_at > ?", *filter.SavedAfter)
	}
	if filter.SavedBefore != nil {
		query = query.Where("saved_at < ?", *filter.SavedBefore)
	}
	return query
}

// ByFilter retrieves saved valuations based on filter criteria
func (r *SavedVehicleRepositoryImpl) ByFilter(ctx context.Context, filter models.SavedVehicleFilter, orderBy string, limit, offset int) ([]*models.SavedVehicle, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SavedVehicle{}), filter)

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

	var saved []*models.SavedVehicle
	if err := query.Find(&saved).Error; err != nil {
		return nil, err
	}
	return saved, nil
}

// Count returns the number of saved valuations matching the filter
func (r *SavedVehicleRepositoryImpl) Count(ctx context.Context, filter models.SavedVehicleFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SavedVehicle{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any saved valuation matching the filter exists
func (r *SavedVehicleRepositoryImpl) Exists(ctx context.Context, filter models.SavedVehicleFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
