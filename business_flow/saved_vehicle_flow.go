// Package businessflow contains the core business logic and use cases for saved valuation workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/lilacbtch/carlytics/app/dto"
	"github.com/lilacbtch/carlytics/models"
	"github.com/lilacbtch/carlytics/repository"
	"github.com/lilacbtch/carlytics/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// SavedVehicleFlow handles a user's saved valuation snapshots
type SavedVehicleFlow interface {
	Save(ctx context.Context, userID uint, request *dto.SaveVehicleRequest, metadata *ClientMetadata) (*dto.SaveVehicleResponse, error)
	List(ctx context.Context, userID uint) (*dto.ListSavedVehiclesResponse, error)
	Delete(ctx context.Context, userID uint, savedID string, metadata *ClientMetadata) (*dto.DeleteSavedVehicleResponse, error)
	ExportXLSX(ctx context.Context, userID uint) (string, []byte, error)
}

// SavedVehicleFlowImpl implements the saved valuation business flow
type SavedVehicleFlowImpl struct {
	savedRepo   repository.SavedVehicleRepository
	vehicleRepo repository.VehicleRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewSavedVehicleFlow creates a new saved valuation flow instance
func NewSavedVehicleFlow(
	savedRepo repository.SavedVehicleRepository,
	vehicleRepo repository.VehicleRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) SavedVehicleFlow {
	return &SavedVehicleFlowImpl{
		savedRepo:   savedRepo,
		vehicleRepo: vehicleRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// Save stores a valuation snapshot for the user. The snapshot keeps the full
// valuation payload as computed, so catalog changes never rewrite it.
func (sf *SavedVehicleFlowImpl) Save(ctx context.Context, userID uint, request *dto.SaveVehicleRequest, metadata *ClientMetadata) (*dto.SaveVehicleResponse, error) {
	saved := &models.SavedVehicle{
		SavedID:        utils.NewPublicID("saved"),
		UserID:         userID,
		VehicleID:      request.VehicleID,
		EstimatedValue: request.EstimatedValue,
		ValuationData:  request.ValuationData,
		SavedAt:        utils.UTCNow(),
	}

	if err := sf.savedRepo.Save(ctx, saved); err != nil {
		return nil, NewBusinessError("SAVE_VEHICLE_FAILED", "Failed to save valuation", err)
	}

	desc := fmt.Sprintf("Valuation saved: %s (%s)", saved.SavedID, saved.VehicleID)
	_ = sf.logSavedEvent(ctx, userID, models.AuditActionVehicleSaved, desc, metadata)

	return &dto.SaveVehicleResponse{
		Message: "Vehicle saved successfully",
		SavedID: saved.SavedID,
	}, nil
}

// List returns the user's saved valuations, newest first, enriched with the
// catalog entries they were computed from where those still exist.
func (sf *SavedVehicleFlowImpl) List(ctx context.Context, userID uint) (*dto.ListSavedVehiclesResponse, error) {
	savedList, err := sf.savedRepo.ListByUser(ctx, userID, utils.SavedVehiclesLimit)
	if err != nil {
		return nil, NewBusinessError("LIST_SAVED_FAILED", "Failed to list saved vehicles", err)
	}

	items := make([]dto.SavedVehicleDTO, 0, len(savedList))
	for _, saved := range savedList {
		vehicle, err := sf.vehicleRepo.ByVehicleID(ctx, saved.VehicleID)
		if err != nil {
			return nil, NewBusinessError("LIST_SAVED_FAILED", "Failed to list saved vehicles", err)
		}
		items = append(items, *ToSavedVehicleDTO(saved, vehicle))
	}

	return &dto.ListSavedVehiclesResponse{Items: items}, nil
}

// Delete removes one saved valuation. The delete is scoped to the owner:
// another user's saved id behaves exactly like a missing one.
func (sf *SavedVehicleFlowImpl) Delete(ctx context.Context, userID uint, savedID string, metadata *ClientMetadata) (*dto.DeleteSavedVehicleResponse, error) {
	deleted, err := sf.savedRepo.DeleteBySavedIDAndUser(ctx, savedID, userID)
	if err != nil {
		return nil, NewBusinessError("DELETE_SAVED_FAILED", "Failed to delete saved vehicle", err)
	}
	if !deleted {
		return nil, NewBusinessError("SAVED_VEHICLE_NOT_FOUND", "Saved vehicle not found", ErrSavedVehicleNotFound)
	}

	desc := fmt.Sprintf("Saved valuation deleted: %s", savedID)
	_ = sf.logSavedEvent(ctx, userID, models.AuditActionSavedVehicleDeleted, desc, metadata)

	return &dto.DeleteSavedVehicleResponse{Message: "Saved vehicle deleted"}, nil
}

// ExportXLSX renders the user's saved valuations as an Excel workbook
func (sf *SavedVehicleFlowImpl) ExportXLSX(ctx context.Context, userID uint) (string, []byte, error) {
	savedList, err := sf.savedRepo.ListByUser(ctx, userID, utils.SavedVehiclesLimit)
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_SAVED_FAILED", "Failed to load saved vehicles", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Saved Valuations"
	xl.SetSheetName("Sheet1", sheet)

	header := []any{"Saved ID", "Vehicle", "Year", "Category", "Estimated Value (TRY)", "Saved At"}
	cellRef, _ := excelize.CoordinatesToCellName(1, 1)
	_ = xl.SetSheetRow(sheet, cellRef, &header)

	for ri, saved := range savedList {
		vehicleName := saved.VehicleID
		year := ""
		category := ""
		if vehicle, err := sf.vehicleRepo.ByVehicleID(ctx, saved.VehicleID); err == nil && vehicle != nil {
			vehicleName = vehicle.Brand + " " + vehicle.Model
			year = fmt.Sprintf("%d", vehicle.Year)
			category = vehicle.Category
		}

		record := []any{
			saved.SavedID,
			vehicleName,
			year,
			category,
			saved.EstimatedValue,
			saved.SavedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	return "saved_valuations.xlsx", buf.Bytes(), nil
}

func (sf *SavedVehicleFlowImpl) logSavedEvent(ctx context.Context, userID uint, action string, description string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		UserID:      &userID,
		Action:      action,
		Description: &description,
		Success:     utils.ToPtr(true),
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		audit.RequestID = &requestID
	}

	return sf.auditRepo.Save(ctx, audit)
}
