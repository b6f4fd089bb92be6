// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/lilacbtch/carlytics/models"
	testingutil "github.com/lilacbtch/carlytics/testing"
	"github.com/lilacbtch/carlytics/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrate(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		// The harness has already migrated once; startup runs the same
		// migration on every boot, so a second pass must succeed and keep
		// all tables queryable.
		require.NoError(t, models.AutoMigrate(testDB.DB))

		for _, table := range []string{"users", "user_sessions", "vehicles", "price_trends", "saved_vehicles", "audit_log"} {
			assert.True(t, testDB.DB.Migrator().HasTable(table), "missing table %s", table)
		}

		return nil
	})
	require.NoError(t, err)
}

func TestVehicle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("CategoryConstants", func(t *testing.T) {
			assert.Equal(t, "sedan", models.VehicleCategorySedan)
			assert.Equal(t, "hatchback", models.VehicleCategoryHatchback)
			assert.Equal(t, "suv", models.VehicleCategorySUV)
		})

		t.Run("TableName", func(t *testing.T) {
			vehicle := &models.Vehicle{}
			assert.Equal(t, "vehicles", vehicle.TableName())
		})

		t.Run("CreateVehicle", func(t *testing.T) {
			vehicle, err := fixtures.CreateTestVehicle("Toyota", "Corolla", 2024, 1350000)
			require.NoError(t, err)
			assert.NotZero(t, vehicle.ID)
			assert.Contains(t, vehicle.VehicleID, "veh_")
			assert.Equal(t, "Toyota", vehicle.Brand)
			assert.Equal(t, 2024, vehicle.Year)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUser(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("TableName", func(t *testing.T) {
			user := &models.User{}
			assert.Equal(t, "users", user.TableName())
		})

		t.Run("CreateUser", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.Contains(t, user.UserID, "user_")
			assert.True(t, utils.IsTrue(user.IsActive))
			assert.Nil(t, user.Picture)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUserSession(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("TableName", func(t *testing.T) {
			session := &models.UserSession{}
			assert.Equal(t, "user_sessions", session.TableName())
		})

		t.Run("ActiveSessionIsValid", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			session, err := fixtures.CreateTestSession(user.ID)
			require.NoError(t, err)
			assert.False(t, session.IsExpired())
			assert.True(t, session.IsValid())
		})

		t.Run("ExpiredSessionIsInvalid", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			session, err := fixtures.CreateExpiredSession(user.ID)
			require.NoError(t, err)
			assert.True(t, session.IsExpired())
			assert.False(t, session.IsValid())
		})

		t.Run("RevokedSessionIsInvalid", func(t *testing.T) {
			session := &models.UserSession{
				IsActive:  utils.ToPtr(false),
				ExpiresAt: utils.UTCNowAdd(time.Hour),
			}
			assert.False(t, session.IsExpired())
			assert.False(t, session.IsValid())
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSavedVehicle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("TableName", func(t *testing.T) {
			saved := &models.SavedVehicle{}
			assert.Equal(t, "saved_vehicles", saved.TableName())
		})

		t.Run("CreateSavedVehicle", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			vehicle, err := fixtures.CreateTestVehicle("Honda", "Civic", 2023, 1300000)
			require.NoError(t, err)

			saved, err := fixtures.CreateTestSavedVehicle(user.ID, vehicle.VehicleID, 1150000)
			require.NoError(t, err)
			assert.NotZero(t, saved.ID)
			assert.Contains(t, saved.SavedID, "saved_")
			assert.Equal(t, vehicle.VehicleID, saved.VehicleID)
			assert.NotEmpty(t, saved.ValuationData)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAuditLog(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		t.Run("ActionConstants", func(t *testing.T) {
			assert.Equal(t, "session_exchanged", models.AuditActionSessionExchanged)
			assert.Equal(t, "logout", models.AuditActionLogout)
			assert.Equal(t, "valuation_calculated", models.AuditActionValuationCalculated)
			assert.Equal(t, "vehicle_saved", models.AuditActionVehicleSaved)
			assert.Equal(t, "document_scanned", models.AuditActionDocumentScanned)
		})

		t.Run("TableName", func(t *testing.T) {
			entry := &models.AuditLog{}
			assert.Equal(t, "audit_log", entry.TableName())
		})

		t.Run("IsFailed", func(t *testing.T) {
			entry := &models.AuditLog{Success: utils.ToPtr(false)}
			assert.True(t, entry.IsFailed())

			entry = &models.AuditLog{Success: utils.ToPtr(true)}
			assert.False(t, entry.IsFailed())

			entry = &models.AuditLog{}
			assert.False(t, entry.IsFailed())
		})

		return nil
	})
	require.NoError(t, err)
}
