package handlers

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/lilacbtch/carlytics/app/dto"
	"github.com/lilacbtch/carlytics/app/middleware"
	businessflow "github.com/lilacbtch/carlytics/business_flow"
	"github.com/lilacbtch/carlytics/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// OCRHandlerInterface defines the contract for document scanning handlers
type OCRHandlerInterface interface {
	Scan(c fiber.Ctx) error
	ScanBase64(c fiber.Ctx) error
}

// OCRHandler handles vehicle document scanning endpoints
type OCRHandler struct {
	flow      businessflow.OCRFlow
	validator *validator.Validate
}

// NewOCRHandler creates a new document scanning handler
func NewOCRHandler(flow businessflow.OCRFlow) OCRHandlerInterface {
	return &OCRHandler{flow: flow, validator: validator.New()}
}

func (h *OCRHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: errorCode, Details: details},
	})
}

func (h *OCRHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// Scan runs OCR over an uploaded document image
// @Summary Scan Vehicle Document
// @Tags OCR
// @Accept multipart/form-data
// @Produce json
// @Security SessionAuth
// @Param image formData file true "Document image"
// @Success 200 {object} dto.APIResponse{data=dto.ScanResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 413 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/ocr/scan [post]
func (h *OCRHandler) Scan(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "NOT_AUTHENTICATED", nil)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil || fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "image is required", "INVALID_IMAGE", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid image", "INVALID_IMAGE", err.Error())
	}
	defer file.Close()

	img, err := io.ReadAll(io.LimitReader(file, utils.MaxScanImageSize+1))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid image", "INVALID_IMAGE", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	contentType := fileHeader.Header.Get("Content-Type")

	res, err := h.flow.ScanImage(h.createRequestContext(c, "/api/v1/ocr/scan"), img, contentType, userID, metadata)
	if err != nil {
		return h.scanErrorResponse(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Document scanned", res)
}

// ScanBase64 runs OCR over a base64-encoded document image
// @Summary Scan Vehicle Document (Base64)
// @Tags OCR
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body dto.ScanBase64Request true "Base64 document image"
// @Success 200 {object} dto.APIResponse{data=dto.ScanResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/ocr/scan-base64 [post]
func (h *OCRHandler) ScanBase64(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "NOT_AUTHENTICATED", nil)
	}

	var req dto.ScanBase64Request
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

	res, err := h.flow.ScanBase64(h.createRequestContext(c, "/api/v1/ocr/scan-base64"), &req, userID, metadata)
	if err != nil {
		return h.scanErrorResponse(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Document scanned", res)
}

func (h *OCRHandler) scanErrorResponse(c fiber.Ctx, err error) error {
	switch {
	case businessflow.IsImageTooLarge(err):
		return h.ErrorResponse(c, fiber.StatusRequestEntityTooLarge, "Image exceeds the maximum allowed size", "IMAGE_TOO_LARGE", nil)
	case businessflow.IsInvalidImage(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid or undecodable image", "INVALID_IMAGE", nil)
	case businessflow.IsInvalidBase64(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid base64 image payload", "INVALID_BASE64", nil)
	default:
		log.Println("Document scan failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Document scan failed", "OCR_FAILED", nil)
	}
}

func (h *OCRHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 60*time.Second)
}

func (h *OCRHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
