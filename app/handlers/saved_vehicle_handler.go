package handlers

import (
	"context"
	"log"
	"time"

	"github.com/lilacbtch/carlytics/app/dto"
	"github.com/lilacbtch/carlytics/app/middleware"
	businessflow "github.com/lilacbtch/carlytics/business_flow"
	"github.com/lilacbtch/carlytics/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// SavedVehicleHandlerInterface defines the contract for saved valuation handlers
type SavedVehicleHandlerInterface interface {
	Save(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

// SavedVehicleHandler handles saved valuation endpoints
type SavedVehicleHandler struct {
	flow      businessflow.SavedVehicleFlow
	validator *validator.Validate
}

// NewSavedVehicleHandler creates a new saved valuation handler
func NewSavedVehicleHandler(flow businessflow.SavedVehicleFlow) SavedVehicleHandlerInterface {
	return &SavedVehicleHandler{flow: flow, validator: validator.New()}
}

func (h *SavedVehicleHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: errorCode, Details: details},
	})
}

func (h *SavedVehicleHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// Save stores a valuation snapshot for the authenticated user
// @Summary Save Vehicle Valuation
// @Tags Saved Vehicles
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body dto.SaveVehicleRequest true "Valuation snapshot"
// @Success 201 {object} dto.APIResponse{data=dto.SaveVehicleResponse}
// @Failure 401 {object} dto.APIResponse
// @Router /api/v1/vehicles/save [post]
func (h *SavedVehicleHandler) Save(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "NOT_AUTHENTICATED", nil)
	}

	var req dto.SaveVehicleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	res, err := h.flow.Save(h.createRequestContext(c, "/api/v1/vehicles/save"), userID, &req, metadata)
	if err != nil {
		log.Println("Save vehicle failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save valuation", "SAVE_VEHICLE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Vehicle saved successfully", res)
}

// List returns the authenticated user's saved valuations
// @Summary List Saved Vehicles
// @Tags Saved Vehicles
// @Produce json
// @Security SessionAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListSavedVehiclesResponse}
// @Failure 401 {object} dto.APIResponse
// @Router /api/v1/vehicles/saved [get]
func (h *SavedVehicleHandler) List(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "NOT_AUTHENTICATED", nil)
	}

	res, err := h.flow.List(h.createRequestContext(c, "/api/v1/vehicles/saved"), userID)
	if err != nil {
		log.Println("List saved vehicles failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list saved vehicles", "LIST_SAVED_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Saved vehicles retrieved", res)
}

// Delete removes one saved valuation owned by the authenticated user
// @Summary Delete Saved Vehicle
// @Tags Saved Vehicles
// @Produce json
// @Security SessionAuth
// @Param saved_id path string true "Saved valuation id"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteSavedVehicleResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /api/v1/vehicles/saved/{saved_id} [delete]
func (h *SavedVehicleHandler) Delete(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "NOT_AUTHENTICATED", nil)
	}

	savedID := c.Params("saved_id")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	res, err := h.flow.Delete(h.createRequestContext(c, "/api/v1/vehicles/saved/:saved_id"), userID, savedID, metadata)
	if err != nil {
		if businessflow.IsSavedVehicleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Saved vehicle not found", "SAVED_VEHICLE_NOT_FOUND", nil)
		}
		log.Println("Delete saved vehicle failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete saved vehicle", "DELETE_SAVED_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Saved vehicle deleted", res)
}

// Export downloads the user's saved valuations as an Excel workbook
// @Summary Export Saved Vehicles
// @Tags Saved Vehicles
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security SessionAuth
// @Success 200 {file} binary
// @Failure 401 {object} dto.APIResponse
// @Router /api/v1/vehicles/saved/export [get]
func (h *SavedVehicleHandler) Export(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "NOT_AUTHENTICATED", nil)
	}

	filename, content, err := h.flow.ExportXLSX(h.createRequestContext(c, "/api/v1/vehicles/saved/export"), userID)
	if err != nil {
		log.Println("Export saved vehicles failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export saved vehicles", "EXPORT_SAVED_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}

func (h *SavedVehicleHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *SavedVehicleHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
