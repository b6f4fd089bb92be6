package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSessionData(t *testing.T) {
	var gotSessionID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/auth/v1/env/oauth/session-data", r.URL.Path)
		gotSessionID = r.Header.Get("X-Session-ID")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SessionData{
			ID:           "provider-user-1",
			Email:        "ayse@example.com",
			Name:         "Ayse Yilmaz",
			SessionToken: "opaque-token-123",
		})
	}))
	defer server.Close()

	client := NewSessionProviderClient(server.URL, 5*time.Second)

	data, err := client.FetchSessionData(context.Background(), "sess-42")
	require.NoError(t, err)
	assert.Equal(t, "sess-42", gotSessionID)
	assert.Equal(t, "ayse@example.com", data.Email)
	assert.Equal(t, "opaque-token-123", data.SessionToken)
}

func TestFetchSessionDataRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewSessionProviderClient(server.URL, 5*time.Second)

	data, err := client.FetchSessionData(context.Background(), "sess-bad")
	assert.Nil(t, data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionRejected)
}

func TestFetchSessionDataIncompletePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Missing session_token
		json.NewEncoder(w).Encode(map[string]string{"email": "ayse@example.com"})
	}))
	defer server.Close()

	client := NewSessionProviderClient(server.URL, 5*time.Second)

	data, err := client.FetchSessionData(context.Background(), "sess-1")
	assert.Nil(t, data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionRejected)
}

func TestFetchSessionDataProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewSessionProviderClient(server.URL, time.Second)

	data, err := client.FetchSessionData(context.Background(), "sess-1")
	assert.Nil(t, data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}
