// Package testing provides test utilities and database setup for testing the valuation service
package testing

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/lilacbtch/carlytics/models"
	"github.com/lilacbtch/carlytics/utils"
	"github.com/google/uuid"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates an active user the way session exchange would
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	suffix := rand.Intn(1000000)
	user := &models.User{
		UserID:   utils.NewPublicID("user"),
		Email:    fmt.Sprintf("jane.doe.%d@example.com", suffix),
		Name:     "Jane Doe",
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestSession creates an active session for the given user.
// The token mimics the opaque value the identity provider issues.
func (tf *TestFixtures) CreateTestSession(userID uint) (*models.UserSession, error) {
	session := &models.UserSession{
		UserID:       userID,
		SessionToken: uuid.New().String(),
		IPAddress:    utils.ToPtr("127.0.0.1"),
		UserAgent:    utils.ToPtr("test-agent/1.0"),
		IsActive:     utils.ToPtr(true),
		ExpiresAt:    utils.UTCNowAdd(utils.SessionTTL),
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}

// CreateTestVehicle creates a catalog vehicle with the given identity
func (tf *TestFixtures) CreateTestVehicle(brand, model string, year int, basePrice float64) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{
		VehicleID:      utils.NewPublicID("veh"),
		Brand:          brand,
		Model:          model,
		Year:           year,
		BasePrice:      basePrice,
		AverageMileage: 15000,
		Category:       models.VehicleCategorySedan,
		CreatedAt:      utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(vehicle).Error; err != nil {
		return nil, fmt.Errorf("failed to create test vehicle: %w", err)
	}

	return vehicle, nil
}

// CreateTestPriceTrend creates a price history series for the given vehicle
func (tf *TestFixtures) CreateTestPriceTrend(vehicle *models.Vehicle, months int) (*models.PriceTrend, error) {
	now := utils.UTCNow()
	points := make([]models.PricePoint, 0, months)
	for i := 0; i < months; i++ {
		monthsAgo := months - i
		points = append(points, models.PricePoint{
			Date:    now.AddDate(0, 0, -monthsAgo*30),
			Price:   vehicle.BasePrice * (0.9 + float64(i)*0.01),
			Mileage: vehicle.AverageMileage - monthsAgo*1000,
		})
	}

	history, err := json.Marshal(points)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal price history: %w", err)
	}

	trend := &models.PriceTrend{
		VehicleID:    vehicle.VehicleID,
		Brand:        vehicle.Brand,
		Model:        vehicle.Model,
		Year:         vehicle.Year,
		PriceHistory: history,
		UpdatedAt:    now,
	}

	if err := tf.DB.DB.Create(trend).Error; err != nil {
		return nil, fmt.Errorf("failed to create test price trend: %w", err)
	}

	return trend, nil
}

// CreateTestSavedVehicle creates a saved valuation for the given user and vehicle
func (tf *TestFixtures) CreateTestSavedVehicle(userID uint, vehicleID string, estimatedValue float64) (*models.SavedVehicle, error) {
	valuation, err := json.Marshal(map[string]any{
		"estimated_value": estimatedValue,
		"currency":        utils.TRYCurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal valuation data: %w", err)
	}

	saved := &models.SavedVehicle{
		SavedID:        utils.NewPublicID("saved"),
		UserID:         userID,
		VehicleID:      vehicleID,
		EstimatedValue: estimatedValue,
		ValuationData:  valuation,
		SavedAt:        utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(saved).Error; err != nil {
		return nil, fmt.Errorf("failed to create test saved vehicle: %w", err)
	}

	return saved, nil
}

// CreateExpiredSession creates a session that expired an hour ago
func (tf *TestFixtures) CreateExpiredSession(userID uint) (*models.UserSession, error) {
	session := &models.UserSession{
		UserID:       userID,
		SessionToken: uuid.New().String(),
		IsActive:     utils.ToPtr(true),
		ExpiresAt:    utils.UTCNow().Add(-time.Hour),
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create expired test session: %w", err)
	}

	return session, nil
}
