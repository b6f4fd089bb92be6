// Package businessflow contains the core business logic and use cases for document scanning workflows
package businessflow

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"

	// Registered decoders determine which upload formats are accepted.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lilacbtch/carlytics/app/dto"
	"github.com/lilacbtch/carlytics/app/services"
	"github.com/lilacbtch/carlytics/models"
	"github.com/lilacbtch/carlytics/repository"
	"github.com/lilacbtch/carlytics/utils"
)

var (
	// VIN: 17 chars, excluding I, O, Q. Matched against uppercased text.
	vinPattern = regexp.MustCompile(`\b[A-HJ-NPR-Z0-9]{17}\b`)
	// Turkish license plate: province code, 1-3 letters, 2-4 digits
	platePattern = regexp.MustCompile(`\b\d{2}\s*[A-Z]{1,3}\s*\d{2,4}\b`)
	yearPattern  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// OCRFlow handles vehicle document scanning
type OCRFlow interface {
	ScanImage(ctx context.Context, image []byte, contentType string, userID uint, metadata *ClientMetadata) (*dto.ScanResponse, error)
	ScanBase64(ctx context.Context, request *dto.ScanBase64Request, userID uint, metadata *ClientMetadata) (*dto.ScanResponse, error)
}

// OCRFlowImpl implements the document scanning business flow
type OCRFlowImpl struct {
	extractor services.TextExtractor
	auditRepo repository.AuditLogRepository
	maxSize   int
}

// NewOCRFlow creates a new document scanning flow instance
func NewOCRFlow(extractor services.TextExtractor, auditRepo repository.AuditLogRepository, maxSize int) OCRFlow {
	if maxSize <= 0 {
		maxSize = utils.MaxScanImageSize
	}
	return &OCRFlowImpl{
		extractor: extractor,
		auditRepo: auditRepo,
		maxSize:   maxSize,
	}
}

// ScanImage runs OCR over an uploaded document image and extracts the
// vehicle identifiers found in the text.
func (of *OCRFlowImpl) ScanImage(ctx context.Context, img []byte, contentType string, userID uint, metadata *ClientMetadata) (*dto.ScanResponse, error) {
	if err := of.validateImage(img); err != nil {
		return nil, err
	}

	text, err := of.extractor.ExtractText(ctx, img, contentType)
	if err != nil {
		errMsg := fmt.Sprintf("Document scan failed: %s", err.Error())
		_ = of.logScanEvent(ctx, userID, false, &errMsg, metadata)

		return nil, NewBusinessError("OCR_FAILED", "Document scan failed", err)
	}

	resp := buildScanResponse(text)
	_ = of.logScanEvent(ctx, userID, true, nil, metadata)

	return resp, nil
}

// ScanBase64 accepts the same image as a base64 string, tolerating a
// data-URI prefix.
func (of *OCRFlowImpl) ScanBase64(ctx context.Context, request *dto.ScanBase64Request, userID uint, metadata *ClientMetadata) (*dto.ScanResponse, error) {
	payload := request.ImageBase64
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	img, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, NewBusinessError("INVALID_BASE64", "Invalid base64 image payload", ErrInvalidBase64)
	}

	return of.ScanImage(ctx, img, "", userID, metadata)
}

// validateImage rejects oversized payloads and anything that is not a
// decodable image in a registered format.
func (of *OCRFlowImpl) validateImage(img []byte) error {
	if len(img) == 0 {
		return NewBusinessError("INVALID_IMAGE", "Empty image payload", ErrInvalidImage)
	}
	if len(img) > of.maxSize {
		return NewBusinessError("IMAGE_TOO_LARGE", "Image exceeds the maximum allowed size", ErrImageTooLarge)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(img)); err != nil {
		return NewBusinessError("INVALID_IMAGE", "Invalid or undecodable image", ErrInvalidImage)
	}
	return nil
}

func buildScanResponse(text string) *dto.ScanResponse {
	resp := &dto.ScanResponse{DetectedText: text}

	if vin := ExtractVIN(text); vin != "" {
		resp.VIN = &vin
		resp.ExtractedData.HasVIN = true
	}
	if plate := ExtractPlate(text); plate != "" {
		resp.LicensePlate = &plate
		resp.ExtractedData.HasPlate = true
	}
	if year, ok := ExtractYear(text); ok {
		resp.ExtractedData.Year = &year
	}

	return resp
}

// ExtractVIN finds the first VIN candidate in the text
func ExtractVIN(text string) string {
	return vinPattern.FindString(strings.ToUpper(text))
}

// ExtractPlate finds the first Turkish license plate candidate in the text
func ExtractPlate(text string) string {
	return strings.TrimSpace(platePattern.FindString(strings.ToUpper(text)))
}

// ExtractYear finds the first plausible model year in the text
func ExtractYear(text string) (int, bool) {
	match := yearPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

func (of *OCRFlowImpl) logScanEvent(ctx context.Context, userID uint, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	description := "Vehicle document scanned"

	audit := &models.AuditLog{
		UserID:       &userID,
		Action:       models.AuditActionDocumentScanned,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		audit.RequestID = &requestID
	}

	return of.auditRepo.Save(ctx, audit)
}
