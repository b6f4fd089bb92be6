// Package tests contains integration tests for the saved valuation flow
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/lilacbtch/carlytics/app/dto"
	businessflow "github.com/lilacbtch/carlytics/business_flow"
	"github.com/lilacbtch/carlytics/repository"
	testingutil "github.com/lilacbtch/carlytics/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newSavedVehicleFlow(testDB *testingutil.TestDB) businessflow.SavedVehicleFlow {
	savedRepo := repository.NewSavedVehicleRepository(testDB.DB)
	vehicleRepo := repository.NewVehicleRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)

	return businessflow.NewSavedVehicleFlow(savedRepo, vehicleRepo, auditRepo, testDB.DB)
}

func valuationPayload(t *testing.T, estimatedValue float64) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"estimated_value": estimatedValue,
		"condition":       "good",
	})
	require.NoError(t, err)
	return payload
}

func TestSaveVehicle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newSavedVehicleFlow(testDB)
		ctx := context.Background()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		vehicle, err := fixtures.CreateTestVehicle("Honda", "Civic", 2023, 1300000)
		require.NoError(t, err)

		result, err := flow.Save(ctx, user.ID, &dto.SaveVehicleRequest{
			VehicleID:      vehicle.VehicleID,
			EstimatedValue: 1150000,
			ValuationData:  valuationPayload(t, 1150000),
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "Vehicle saved successfully", result.Message)
		assert.Contains(t, result.SavedID, "saved_")

		return nil
	})
	require.NoError(t, err)
}

func TestListSavedVehicles(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newSavedVehicleFlow(testDB)
		ctx := context.Background()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		vehicle, err := fixtures.CreateTestVehicle("Toyota", "Corolla", 2024, 1350000)
		require.NoError(t, err)

		t.Run("Empty", func(t *testing.T) {
			result, err := flow.List(ctx, user.ID)
			require.NoError(t, err)
			assert.Empty(t, result.Items)
		})

		t.Run("WithVehicleDetails", func(t *testing.T) {
			saved, err := fixtures.CreateTestSavedVehicle(user.ID, vehicle.VehicleID, 1200000)
			require.NoError(t, err)

			result, err := flow.List(ctx, user.ID)
			require.NoError(t, err)
			require.Len(t, result.Items, 1)
			assert.Equal(t, saved.SavedID, result.Items[0].SavedID)
			assert.Equal(t, 1200000.0, result.Items[0].EstimatedValue)
			require.NotNil(t, result.Items[0].VehicleDetails)
			assert.Equal(t, "Toyota", result.Items[0].VehicleDetails.Brand)
		})

		t.Run("ScopedToOwner", func(t *testing.T) {
			other, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			result, err := flow.List(ctx, other.ID)
			require.NoError(t, err)
			assert.Empty(t, result.Items)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestDeleteSavedVehicle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newSavedVehicleFlow(testDB)
		ctx := context.Background()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		vehicle, err := fixtures.CreateTestVehicle("Renault", "Clio", 2024, 850000)
		require.NoError(t, err)

		t.Run("DeletesOwn", func(t *testing.T) {
			saved, err := fixtures.CreateTestSavedVehicle(user.ID, vehicle.VehicleID, 800000)
			require.NoError(t, err)

			result, err := flow.Delete(ctx, user.ID, saved.SavedID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "Saved vehicle deleted", result.Message)
		})

		t.Run("UnknownID", func(t *testing.T) {
			result, err := flow.Delete(ctx, user.ID, "saved_000000000000", testMetadata())
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, businessflow.IsSavedVehicleNotFound(err))
		})

		t.Run("OtherUsersEntryLooksMissing", func(t *testing.T) {
			saved, err := fixtures.CreateTestSavedVehicle(user.ID, vehicle.VehicleID, 800000)
			require.NoError(t, err)

			other, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			result, err := flow.Delete(ctx, other.ID, saved.SavedID, testMetadata())
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, businessflow.IsSavedVehicleNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestExportSavedVehiclesXLSX(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newSavedVehicleFlow(testDB)
		ctx := context.Background()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		vehicle, err := fixtures.CreateTestVehicle("Toyota", "Camry", 2024, 2100000)
		require.NoError(t, err)
		_, err = fixtures.CreateTestSavedVehicle(user.ID, vehicle.VehicleID, 1950000)
		require.NoError(t, err)

		filename, content, err := flow.ExportXLSX(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "saved_valuations.xlsx", filename)
		require.NotEmpty(t, content)

		// The payload must be a readable workbook with a header and one data row
		xl, err := excelize.OpenReader(bytes.NewReader(content))
		require.NoError(t, err)
		defer xl.Close()

		rows, err := xl.GetRows("Saved Valuations")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Saved ID", rows[0][0])
		assert.Contains(t, rows[1][1], "Toyota Camry")

		return nil
	})
	require.NoError(t, err)
}
