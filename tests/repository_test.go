// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/lilacbtch/carlytics/models"
	"github.com/lilacbtch/carlytics/repository"
	testingutil "github.com/lilacbtch/carlytics/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewUserRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByEmail", func(t *testing.T) {
			original, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			user, err := repo.ByEmail(ctx, original.Email)
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.Equal(t, original.ID, user.ID)
			assert.Equal(t, original.Email, user.Email)
		})

		t.Run("ByEmailNotFound", func(t *testing.T) {
			user, err := repo.ByEmail(ctx, "nobody@example.com")
			assert.NoError(t, err)
			assert.Nil(t, user)
		})

		t.Run("ByUserID", func(t *testing.T) {
			original, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			user, err := repo.ByUserID(ctx, original.UserID)
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.Equal(t, original.ID, user.ID)
		})

		t.Run("Update", func(t *testing.T) {
			original, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			original.Name = "Renamed User"
			require.NoError(t, repo.Update(ctx, original))

			user, err := repo.ByID(ctx, original.ID)
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.Equal(t, "Renamed User", user.Name)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUserSessionRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewUserSessionRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByToken", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			original, err := fixtures.CreateTestSession(user.ID)
			require.NoError(t, err)

			session, err := repo.ByToken(ctx, original.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.Equal(t, original.ID, session.ID)
			assert.Equal(t, user.ID, session.User.ID)
			assert.Equal(t, user.Email, session.User.Email)
		})

		t.Run("ByTokenNotFound", func(t *testing.T) {
			session, err := repo.ByToken(ctx, "no-such-token")
			assert.NoError(t, err)
			assert.Nil(t, session)
		})

		t.Run("ByTokenExpired", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			expired, err := fixtures.CreateExpiredSession(user.ID)
			require.NoError(t, err)

			session, err := repo.ByToken(ctx, expired.SessionToken)
			assert.NoError(t, err)
			assert.Nil(t, session)
		})

		t.Run("RevokeByToken", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			original, err := fixtures.CreateTestSession(user.ID)
			require.NoError(t, err)

			require.NoError(t, repo.RevokeByToken(ctx, original.SessionToken))

			session, err := repo.ByToken(ctx, original.SessionToken)
			assert.NoError(t, err)
			assert.Nil(t, session)
		})

		t.Run("RevokeUnknownTokenIsIdempotent", func(t *testing.T) {
			assert.NoError(t, repo.RevokeByToken(ctx, "no-such-token"))
		})

		t.Run("DeleteExpired", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			_, err = fixtures.CreateExpiredSession(user.ID)
			require.NoError(t, err)
			keep, err := fixtures.CreateTestSession(user.ID)
			require.NoError(t, err)

			deleted, err := repo.DeleteExpired(ctx)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, deleted, int64(1))

			session, err := repo.ByToken(ctx, keep.SessionToken)
			require.NoError(t, err)
			assert.NotNil(t, session)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVehicleRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewVehicleRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		golf2024, err := fixtures.CreateTestVehicle("Volkswagen", "Golf", 2024, 1250000)
		require.NoError(t, err)
		_, err = fixtures.CreateTestVehicle("Volkswagen", "Golf", 2023, 1100000)
		require.NoError(t, err)
		_, err = fixtures.CreateTestVehicle("Renault", "Clio", 2024, 850000)
		require.NoError(t, err)

		t.Run("ByVehicleID", func(t *testing.T) {
			vehicle, err := repo.ByVehicleID(ctx, golf2024.VehicleID)
			require.NoError(t, err)
			require.NotNil(t, vehicle)
			assert.Equal(t, golf2024.ID, vehicle.ID)
		})

		t.Run("ByVehicleIDNotFound", func(t *testing.T) {
			vehicle, err := repo.ByVehicleID(ctx, "veh_000000000000")
			assert.NoError(t, err)
			assert.Nil(t, vehicle)
		})

		t.Run("ByBrandModelYear", func(t *testing.T) {
			vehicle, err := repo.ByBrandModelYear(ctx, "Volkswagen", "Golf", 2024)
			require.NoError(t, err)
			require.NotNil(t, vehicle)
			assert.Equal(t, 2024, vehicle.Year)
		})

		t.Run("ByBrandModelYearCaseInsensitive", func(t *testing.T) {
			vehicle, err := repo.ByBrandModelYear(ctx, "volkswagen", "golf", 2024)
			require.NoError(t, err)
			require.NotNil(t, vehicle)
			assert.Equal(t, "Volkswagen", vehicle.Brand)
		})

		t.Run("ByBrandModelPrefersNewestYear", func(t *testing.T) {
			vehicle, err := repo.ByBrandModel(ctx, "Volkswagen", "Golf")
			require.NoError(t, err)
			require.NotNil(t, vehicle)
			assert.Equal(t, 2024, vehicle.Year)
		})

		t.Run("DistinctBrands", func(t *testing.T) {
			brands, err := repo.DistinctBrands(ctx)
			require.NoError(t, err)
			assert.Contains(t, brands, "Volkswagen")
			assert.Contains(t, brands, "Renault")
		})

		t.Run("DistinctModels", func(t *testing.T) {
			vwModels, err := repo.DistinctModels(ctx, "Volkswagen")
			require.NoError(t, err)
			assert.Contains(t, vwModels, "Golf")
			assert.NotContains(t, vwModels, "Clio")
		})

		t.Run("ByFilter", func(t *testing.T) {
			brand := "Volkswagen"
			vehicles, err := repo.ByFilter(ctx, models.VehicleFilter{Brand: &brand}, "", 0, 0)
			require.NoError(t, err)
			assert.Len(t, vehicles, 2)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPriceTrendRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewPriceTrendRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		vehicle, err := fixtures.CreateTestVehicle("Toyota", "Yaris", 2024, 950000)
		require.NoError(t, err)

		trend, err := fixtures.CreateTestPriceTrend(vehicle, 12)
		require.NoError(t, err)

		t.Run("ByVehicleID", func(t *testing.T) {
			found, err := repo.ByVehicleID(ctx, vehicle.VehicleID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, trend.ID, found.ID)
			assert.Equal(t, "Toyota", found.Brand)
			assert.NotEmpty(t, found.PriceHistory)
		})

		t.Run("ByVehicleIDNotFound", func(t *testing.T) {
			found, err := repo.ByVehicleID(ctx, "veh_000000000000")
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSavedVehicleRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewSavedVehicleRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("BySavedID", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle("Honda", "Jazz", 2023, 950000)
			require.NoError(t, err)

			original, err := fixtures.CreateTestSavedVehicle(user.ID, vehicle.VehicleID, 900000)
			require.NoError(t, err)

			saved, err := repo.BySavedID(ctx, original.SavedID)
			require.NoError(t, err)
			require.NotNil(t, saved)
			assert.Equal(t, original.ID, saved.ID)
		})

		t.Run("ListByUser", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle("Honda", "Accord", 2024, 1850000)
			require.NoError(t, err)

			first, err := fixtures.CreateTestSavedVehicle(user.ID, vehicle.VehicleID, 1700000)
			require.NoError(t, err)
			second, err := fixtures.CreateTestSavedVehicle(user.ID, vehicle.VehicleID, 1750000)
			require.NoError(t, err)

			saved, err := repo.ListByUser(ctx, user.ID, 100)
			require.NoError(t, err)
			require.Len(t, saved, 2)
			// Newest first
			assert.Equal(t, second.SavedID, saved[0].SavedID)
			assert.Equal(t, first.SavedID, saved[1].SavedID)
		})

		t.Run("ListByUserEmpty", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			saved, err := repo.ListByUser(ctx, user.ID, 100)
			require.NoError(t, err)
			assert.Empty(t, saved)
		})

		t.Run("DeleteBySavedIDAndUser", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle("Renault", "Megane", 2024, 1100000)
			require.NoError(t, err)

			original, err := fixtures.CreateTestSavedVehicle(user.ID, vehicle.VehicleID, 1000000)
			require.NoError(t, err)

			deleted, err := repo.DeleteBySavedIDAndUser(ctx, original.SavedID, user.ID)
			require.NoError(t, err)
			assert.True(t, deleted)

			saved, err := repo.BySavedID(ctx, original.SavedID)
			require.NoError(t, err)
			assert.Nil(t, saved)
		})

		t.Run("DeleteRespectsOwnership", func(t *testing.T) {
			owner, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			other, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle("Toyota", "Camry", 2024, 2100000)
			require.NoError(t, err)

			original, err := fixtures.CreateTestSavedVehicle(owner.ID, vehicle.VehicleID, 1900000)
			require.NoError(t, err)

			deleted, err := repo.DeleteBySavedIDAndUser(ctx, original.SavedID, other.ID)
			require.NoError(t, err)
			assert.False(t, deleted)

			saved, err := repo.BySavedID(ctx, original.SavedID)
			require.NoError(t, err)
			assert.NotNil(t, saved)
		})

		return nil
	})
	require.NoError(t, err)
}
