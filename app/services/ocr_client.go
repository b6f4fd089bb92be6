// Package services contains external service integrations and support services
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OCR provider errors
var (
	ErrOCRFailed = errors.New("ocr text extraction failed")
)

// TextExtractor turns an image into the raw text it contains. The extraction
// engine itself is an external collaborator; only its text output is
// processed locally.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte, contentType string) (string, error)
}

// OCRClient is the HTTP implementation of TextExtractor
type OCRClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewOCRClient creates an OCR provider client
func NewOCRClient(baseURL, apiKey string, timeout time.Duration) *OCRClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OCRClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
		Timeout:    timeout,
	}
}

func (c *OCRClient) Name() string { return "ocr-provider" }

type ocrExtractResp struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// ExtractText posts the raw image to the provider's extraction endpoint and
// returns the detected text.
func (c *OCRClient) ExtractText(ctx context.Context, image []byte, contentType string) (string, error) {
	url := c.BaseURL + "/v1/ocr/extract"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(image))
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrOCRFailed, resp.StatusCode)
	}

	var out ocrExtractResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrOCRFailed, out.Error)
	}

	return out.Text, nil
}
