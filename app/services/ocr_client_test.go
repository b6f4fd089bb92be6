package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	var gotBody []byte
	var gotContentType, gotAPIKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/ocr/extract", r.URL.Path)
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		gotAPIKey = r.Header.Get("X-API-Key")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ocrExtractResp{Text: "VIN WVWZZZ1JZXW000001 34 ABC 123"})
	}))
	defer server.Close()

	client := NewOCRClient(server.URL, "test-key", 5*time.Second)

	text, err := client.ExtractText(context.Background(), []byte("image-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "VIN WVWZZZ1JZXW000001 34 ABC 123", text)
	assert.Equal(t, []byte("image-bytes"), gotBody)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, "test-key", gotAPIKey)
}

func TestExtractTextDefaultContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		json.NewEncoder(w).Encode(ocrExtractResp{Text: ""})
	}))
	defer server.Close()

	client := NewOCRClient(server.URL, "", 5*time.Second)

	_, err := client.ExtractText(context.Background(), []byte("x"), "")
	require.NoError(t, err)
}

func TestExtractTextProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewOCRClient(server.URL, "", 5*time.Second)

	text, err := client.ExtractText(context.Background(), []byte("x"), "image/png")
	assert.Empty(t, text)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOCRFailed)
}

func TestExtractTextErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ocrExtractResp{Error: "unsupported image format"})
	}))
	defer server.Close()

	client := NewOCRClient(server.URL, "", 5*time.Second)

	text, err := client.ExtractText(context.Background(), []byte("x"), "image/png")
	assert.Empty(t, text)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOCRFailed)
	assert.Contains(t, err.Error(), "unsupported image format")
}
