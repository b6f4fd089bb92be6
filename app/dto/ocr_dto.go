// Package dto contains Data Transfer Objects for API request and response structures
package dto

// ScanBase64Request carries a base64-encoded document image. A data-URI
// prefix ("data:image/png;base64,...") is tolerated and stripped.
type ScanBase64Request struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}

// ScanExtractedData holds the structured fields recognized in the scan
type ScanExtractedData struct {
	Year     *int `json:"year,omitempty"`
	HasVIN   bool `json:"has_vin"`
	HasPlate bool `json:"has_plate"`
}

// ScanResponse is the result of an OCR document scan
type ScanResponse struct {
	DetectedText  string            `json:"detected_text"`
	VIN           *string           `json:"vin,omitempty"`
	LicensePlate  *string           `json:"license_plate,omitempty"`
	ExtractedData ScanExtractedData `json:"extracted_data"`
}
