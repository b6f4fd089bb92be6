// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"strings"

	"github.com/lilacbtch/carlytics/app/dto"
	"github.com/lilacbtch/carlytics/models"
	"github.com/lilacbtch/carlytics/repository"
	"github.com/lilacbtch/carlytics/utils"
	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware validates session tokens for protected endpoints. The token
// is read from the session cookie first, then from the Authorization header
// (with or without a Bearer prefix).
type AuthMiddleware struct {
	sessionRepo repository.UserSessionRepository
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(sessionRepo repository.UserSessionRepository) *AuthMiddleware {
	return &AuthMiddleware{
		sessionRepo: sessionRepo,
	}
}

// Authenticate is the middleware function that validates session tokens
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := ExtractSessionToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authentication required",
				Error: dto.ErrorDetail{
					Code: "NOT_AUTHENTICATED",
				},
			})
		}

		// ByToken only returns sessions that are active and unexpired
		session, err := m.sessionRepo.ByToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
				Success: false,
				Message: "Session validation failed",
				Error: dto.ErrorDetail{
					Code: "SESSION_VALIDATION_FAILED",
				},
			})
		}
		if session == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Invalid or expired session",
				Error: dto.ErrorDetail{
					Code: "SESSION_INVALID",
				},
			})
		}

		if !utils.IsTrue(session.User.IsActive) {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Account is inactive",
				Error: dto.ErrorDetail{
					Code: "ACCOUNT_INACTIVE",
				},
			})
		}

		// Store user information in context for downstream handlers
		c.Locals("user_id", session.UserID)
		c.Locals("user", &session.User)
		c.Locals("session_token", token)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// ExtractSessionToken reads the session token from the cookie or the
// Authorization header. The cookie wins when both are present.
func ExtractSessionToken(c fiber.Ctx) string {
	if token := c.Cookies(utils.SessionCookieName); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return authHeader
}

// GetUserIDFromContext retrieves the authenticated user's database id
func GetUserIDFromContext(c fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("user_id").(uint)
	return userID, ok
}

// GetUserFromContext retrieves the authenticated user
func GetUserFromContext(c fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok
}

// GetSessionTokenFromContext retrieves the validated session token
func GetSessionTokenFromContext(c fiber.Ctx) (string, bool) {
	token, ok := c.Locals("session_token").(string)
	return token, ok
}
