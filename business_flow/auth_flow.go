// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/lilacbtch/carlytics/app/dto"
	"github.com/lilacbtch/carlytics/app/services"
	"github.com/lilacbtch/carlytics/models"
	"github.com/lilacbtch/carlytics/repository"
	"github.com/lilacbtch/carlytics/utils"
	"gorm.io/gorm"
)

// AuthFlow handles session exchange, identity lookup, and logout
type AuthFlow interface {
	ExchangeSession(ctx context.Context, sessionID string, metadata *ClientMetadata) (*dto.SessionExchangeResponse, error)
	CurrentUser(ctx context.Context, userID uint) (*dto.AuthUserDTO, error)
	Logout(ctx context.Context, sessionToken string, metadata *ClientMetadata) (*dto.LogoutResponse, error)
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	userRepo        repository.UserRepository
	sessionRepo     repository.UserSessionRepository
	auditRepo       repository.AuditLogRepository
	sessionProvider services.SessionProvider
	db              *gorm.DB
}

// NewAuthFlow creates a new authentication flow instance
func NewAuthFlow(
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	auditRepo repository.AuditLogRepository,
	sessionProvider services.SessionProvider,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		auditRepo:       auditRepo,
		sessionProvider: sessionProvider,
		db:              db,
	}
}

// ExchangeSession exchanges a one-time session id for a local session. The
// identity provider is the source of truth: its session data is upserted
// into the users table (keyed by email) and the provider-issued token is
// stored verbatim as the session credential.
func (af *AuthFlowImpl) ExchangeSession(ctx context.Context, sessionID string, metadata *ClientMetadata) (*dto.SessionExchangeResponse, error) {
	if sessionID == "" {
		return nil, NewBusinessError("SESSION_ID_MISSING", "Session id header is required", ErrMissingSessionID)
	}

	// Single synchronous provider call, no retry. Failures are not wrapped
	// in the transaction: nothing has been written yet.
	data, err := af.sessionProvider.FetchSessionData(ctx, sessionID)
	if err != nil {
		errMsg := fmt.Sprintf("Session exchange failed: %s", err.Error())
		_ = af.LogAuthEvent(ctx, nil, models.AuditActionSessionExchangeFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("SESSION_EXCHANGE_FAILED", "Session validation failed", ErrSessionExchange)
	}

	var user *models.User

	resp, err := af.WithExchangeTransaction(ctx, func(ctx context.Context) (*dto.SessionExchangeResponse, error) {
		var err error
		user, err = af.upsertUser(ctx, data)
		if err != nil {
			return nil, err
		}

		if !utils.IsTrue(user.IsActive) {
			return nil, ErrAccountInactive
		}

		if err := af.createSession(ctx, user.ID, data.SessionToken, metadata); err != nil {
			return nil, err
		}

		return &dto.SessionExchangeResponse{
			ID:           user.UserID,
			Email:        user.Email,
			Name:         user.Name,
			Picture:      user.Picture,
			SessionToken: data.SessionToken,
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Session exchange failed: %s", err.Error())
		_ = af.LogAuthEvent(ctx, user, models.AuditActionSessionExchangeFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("SESSION_EXCHANGE_FAILED", "Session exchange failed", err)
	}

	msg := fmt.Sprintf("Session exchanged for user: %s", user.UserID)
	_ = af.LogAuthEvent(ctx, user, models.AuditActionSessionExchanged, msg, true, nil, metadata)

	return resp, nil
}

// CurrentUser returns the profile of an authenticated user
func (af *AuthFlowImpl) CurrentUser(ctx context.Context, userID uint) (*dto.AuthUserDTO, error) {
	user, err := af.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}
	if !utils.IsTrue(user.IsActive) {
		return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is inactive", ErrAccountInactive)
	}

	return ToAuthUserDTO(user), nil
}

// Logout revokes the session identified by the given token. Logging out an
// already-revoked or unknown token is not an error.
func (af *AuthFlowImpl) Logout(ctx context.Context, sessionToken string, metadata *ClientMetadata) (*dto.LogoutResponse, error) {
	var user *models.User

	if sessionToken != "" {
		session, err := af.sessionRepo.ByToken(ctx, sessionToken)
		if err != nil {
			return nil, NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
		}
		if session != nil {
			user = &session.User
			if err := af.sessionRepo.RevokeByToken(ctx, sessionToken); err != nil {
				return nil, NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
			}
		}
	}

	_ = af.LogAuthEvent(ctx, user, models.AuditActionLogout, "User logged out", true, nil, metadata)

	return &dto.LogoutResponse{Message: "Logged out successfully"}, nil
}

// upsertUser finds the user by email or provisions a new account from the
// provider's session data. Name and picture follow the provider on every
// exchange.
func (af *AuthFlowImpl) upsertUser(ctx context.Context, data *services.SessionData) (*models.User, error) {
	user, err := af.userRepo.ByEmail(ctx, data.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &models.User{
			UserID:    utils.NewPublicID("user"),
			Email:     data.Email,
			Name:      data.Name,
			Picture:   data.Picture,
			IsActive:  utils.ToPtr(true),
			CreatedAt: utils.UTCNow(),
			UpdatedAt: utils.UTCNow(),
		}
		if err := af.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	user.Name = data.Name
	user.Picture = data.Picture
	user.UpdatedAt = utils.UTCNow()
	if err := af.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// createSession stores the provider-issued token with a fixed TTL
func (af *AuthFlowImpl) createSession(ctx context.Context, userID uint, sessionToken string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.UserSession{
		UserID:       userID,
		SessionToken: sessionToken,
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		ExpiresAt:    utils.UTCNowAdd(utils.SessionTTL),
	}

	return af.sessionRepo.Save(ctx, session)
}

// LogAuthEvent records an authentication audit entry
func (af *AuthFlowImpl) LogAuthEvent(ctx context.Context, user *models.User, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	var userID *uint
	if user != nil {
		userID = &user.ID
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return af.auditRepo.Save(ctx, audit)
}

// WithExchangeTransaction executes the session exchange within a transaction
func (af *AuthFlowImpl) WithExchangeTransaction(ctx context.Context, fn func(context.Context) (*dto.SessionExchangeResponse, error)) (*dto.SessionExchangeResponse, error) {
	var result *dto.SessionExchangeResponse
	var fnErr error

	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
