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

// VehicleHandlerInterface defines the contract for catalog and valuation handlers
type VehicleHandlerInterface interface {
	Search(c fiber.Ctx) error
	Brands(c fiber.Ctx) error
	Models(c fiber.Ctx) error
	GetVehicle(c fiber.Ctx) error
	Calculate(c fiber.Ctx) error
	Trends(c fiber.Ctx) error
}

// VehicleHandler handles catalog browsing and valuation endpoints
type VehicleHandler struct {
	flow      businessflow.VehicleFlow
	validator *validator.Validate
}

// NewVehicleHandler creates a new catalog and valuation handler
func NewVehicleHandler(flow businessflow.VehicleFlow) VehicleHandlerInterface {
	return &VehicleHandler{flow: flow, validator: validator.New()}
}

func (h *VehicleHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: errorCode, Details: details},
	})
}

func (h *VehicleHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// Search lists catalog vehicles matching the query filters
// @Summary Search Vehicles
// @Tags Vehicles
// @Produce json
// @Security SessionAuth
// @Param brand query string false "Brand substring"
// @Param model query string false "Model substring"
// @Param year_min query int false "Minimum model year"
// @Param year_max query int false "Maximum model year"
// @Param price_min query number false "Minimum base price"
// @Param price_max query number false "Maximum base price"
// @Param category query string false "Category" Enums(sedan, hatchback, suv)
// @Success 200 {object} dto.APIResponse{data=dto.SearchVehiclesResponse}
// @Router /api/v1/vehicles/search [get]
func (h *VehicleHandler) Search(c fiber.Ctx) error {
	var req dto.SearchVehiclesRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	res, err := h.flow.Search(h.createRequestContext(c, "/api/v1/vehicles/search"), &req)
	if err != nil {
		log.Println("Vehicle search failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Vehicle search failed", "VEHICLE_SEARCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vehicles retrieved", res)
}

// Brands lists the distinct brands in the catalog
// @Summary List Brands
// @Tags Vehicles
// @Produce json
// @Security SessionAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListBrandsResponse}
// @Router /api/v1/vehicles/brands [get]
func (h *VehicleHandler) Brands(c fiber.Ctx) error {
	res, err := h.flow.Brands(h.createRequestContext(c, "/api/v1/vehicles/brands"))
	if err != nil {
		log.Println("List brands failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list brands", "LIST_BRANDS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Brands retrieved", res)
}

// Models lists the models of a brand
// @Summary List Models
// @Tags Vehicles
// @Produce json
// @Security SessionAuth
// @Param brand path string true "Brand name"
// @Success 200 {object} dto.APIResponse{data=dto.ListModelsResponse}
// @Router /api/v1/vehicles/models/{brand} [get]
func (h *VehicleHandler) Models(c fiber.Ctx) error {
	brand := c.Params("brand")
	if brand == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Brand is required", "INVALID_REQUEST", nil)
	}

	res, err := h.flow.Models(h.createRequestContext(c, "/api/v1/vehicles/models"), brand)
	if err != nil {
		log.Println("List models failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list models", "LIST_MODELS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Models retrieved", res)
}

// GetVehicle returns a single catalog entry
// @Summary Get Vehicle
// @Tags Vehicles
// @Produce json
// @Security SessionAuth
// @Param id path string true "Vehicle id"
// @Success 200 {object} dto.APIResponse{data=dto.VehicleDTO}
// @Failure 404 {object} dto.APIResponse
// @Router /api/v1/vehicles/{id} [get]
func (h *VehicleHandler) GetVehicle(c fiber.Ctx) error {
	vehicleID := c.Params("id")

	res, err := h.flow.GetVehicle(h.createRequestContext(c, "/api/v1/vehicles/:id"), vehicleID)
	if err != nil {
		if businessflow.IsVehicleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vehicle not found", "VEHICLE_NOT_FOUND", nil)
		}
		log.Println("Get vehicle failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load vehicle", "GET_VEHICLE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vehicle retrieved", res)
}

// Calculate estimates the value of a described vehicle
// @Summary Calculate Valuation
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body dto.CalculateValuationRequest true "Vehicle description"
// @Success 200 {object} dto.APIResponse{data=dto.ValuationResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /api/v1/vehicles/calculate [post]
func (h *VehicleHandler) Calculate(c fiber.Ctx) error {
	var req dto.CalculateValuationRequest
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

	// The user id is taken from the session when present so the audit trail
	// can attribute the calculation
	var userID *uint
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &id
	}

	res, err := h.flow.Calculate(h.createRequestContext(c, "/api/v1/vehicles/calculate"), &req, userID, metadata)
	if err != nil {
		if businessflow.IsVehicleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vehicle not found in catalog", "VEHICLE_NOT_FOUND", nil)
		}
		log.Println("Valuation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Valuation failed", "VALUATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Valuation calculated", res)
}

// Trends returns a vehicle's 12-month price history
// @Summary Price Trends
// @Tags Vehicles
// @Produce json
// @Security SessionAuth
// @Param id path string true "Vehicle id"
// @Success 200 {object} dto.APIResponse{data=dto.PriceTrendResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /api/v1/vehicles/trends/{id} [get]
func (h *VehicleHandler) Trends(c fiber.Ctx) error {
	vehicleID := c.Params("id")

	res, err := h.flow.Trends(h.createRequestContext(c, "/api/v1/vehicles/trends"), vehicleID)
	if err != nil {
		if businessflow.IsPriceTrendsNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Price trends not found", "PRICE_TRENDS_NOT_FOUND", nil)
		}
		log.Println("Get trends failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load price trends", "GET_TRENDS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Price trends retrieved", res)
}

func (h *VehicleHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *VehicleHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
