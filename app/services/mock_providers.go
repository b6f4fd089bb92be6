// Package services contains external service integrations and support services
package services

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// MockSessionProvider accepts any non-empty session id and mints a fresh
// token per exchange, which mirrors the real provider's behavior.
type MockSessionProvider struct {
	Email   string
	Name    string
	Picture *string
}

func NewMockSessionProvider() *MockSessionProvider {
	return &MockSessionProvider{
		Email: "dev@example.com",
		Name:  "Dev User",
	}
}

func (p *MockSessionProvider) FetchSessionData(ctx context.Context, sessionID string) (*SessionData, error) {
	if sessionID == "" {
		return nil, ErrSessionRejected
	}
	log.Printf("Mock session exchange for session id %s", sessionID)
	return &SessionData{
		ID:           uuid.New().String(),
		Email:        p.Email,
		Name:         p.Name,
		Picture:      p.Picture,
		SessionToken: uuid.New().String(),
	}, nil
}

// MockTextExtractor returns a fixed text regardless of the image content
type MockTextExtractor struct {
	Text string
	Err  error
}

func NewMockTextExtractor(text string) *MockTextExtractor {
	return &MockTextExtractor{Text: text}
}

func (e *MockTextExtractor) ExtractText(ctx context.Context, image []byte, contentType string) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	return e.Text, nil
}
