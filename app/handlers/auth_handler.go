package handlers

import (
	"context"
	"log"
	"time"

	"github.com/lilacbtch/carlytics/app/dto"
	"github.com/lilacbtch/carlytics/app/middleware"
	businessflow "github.com/lilacbtch/carlytics/business_flow"
	"github.com/lilacbtch/carlytics/utils"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	ExchangeSession(c fiber.Ctx) error
	Me(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
}

// AuthHandler handles session exchange and logout endpoints
type AuthHandler struct {
	flow businessflow.AuthFlow
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(flow businessflow.AuthFlow) AuthHandlerInterface {
	return &AuthHandler{flow: flow}
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: errorCode, Details: details},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// ExchangeSession exchanges a provider session id for a local session
// @Summary Exchange Session
// @Description Validates the X-Session-ID header against the identity provider and issues a session cookie
// @Tags Authentication
// @Produce json
// @Param X-Session-ID header string true "One-time session id"
// @Success 200 {object} dto.APIResponse{data=dto.SessionExchangeResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /api/v1/auth/session [post]
func (h *AuthHandler) ExchangeSession(c fiber.Ctx) error {
	ctx := h.createRequestContext(c, "/api/v1/auth/session")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	sessionID := c.Get("X-Session-ID")
	if sessionID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Session id header is required", "SESSION_ID_MISSING", nil)
	}

	res, err := h.flow.ExchangeSession(ctx, sessionID, metadata)
	if err != nil {
		log.Println("Session exchange failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Session validation failed", "SESSION_EXCHANGE_FAILED", nil)
	}

	h.setSessionCookie(c, res.SessionToken)

	return h.SuccessResponse(c, fiber.StatusOK, "Session exchanged successfully", res)
}

// Me returns the authenticated user's profile
// @Summary Current User
// @Tags Authentication
// @Produce json
// @Security SessionAuth
// @Success 200 {object} dto.APIResponse{data=dto.AuthUserDTO}
// @Failure 401 {object} dto.APIResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c fiber.Ctx) error {
	ctx := h.createRequestContext(c, "/api/v1/auth/me")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "NOT_AUTHENTICATED", nil)
	}

	res, err := h.flow.CurrentUser(ctx, userID)
	if err != nil {
		log.Println("Current user lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid session", "SESSION_INVALID", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "User retrieved", res)
}

// Logout revokes the current session and clears the session cookie
// @Summary Logout
// @Tags Authentication
// @Produce json
// @Security SessionAuth
// @Success 200 {object} dto.APIResponse{data=dto.LogoutResponse}
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	ctx := h.createRequestContext(c, "/api/v1/auth/logout")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	token := middleware.ExtractSessionToken(c)

	res, err := h.flow.Logout(ctx, token, metadata)
	if err != nil {
		log.Println("Logout failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Logout failed", "LOGOUT_FAILED", nil)
	}

	h.clearSessionCookie(c)

	return h.SuccessResponse(c, fiber.StatusOK, "Logged out successfully", res)
}

func (h *AuthHandler) setSessionCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookieName,
		Value:    token,
		MaxAge:   utils.SessionTTLSeconds,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (h *AuthHandler) clearSessionCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (h *AuthHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *AuthHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
