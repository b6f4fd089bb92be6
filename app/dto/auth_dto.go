// Package dto contains Data Transfer Objects for API request and response structures
package dto

// AuthUserDTO represents an authenticated user in API responses
type AuthUserDTO struct {
	UserID    string  `json:"user_id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Picture   *string `json:"picture,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// SessionExchangeResponse is returned by POST /auth/session. It mirrors the
// identity provider's session data; the token is also set as a cookie.
type SessionExchangeResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture,omitempty"`
	SessionToken string  `json:"session_token"`
}

// LogoutResponse confirms session revocation
type LogoutResponse struct {
	Message string `json:"message"`
}
