// Package businessflow contains the core business logic and use cases for the valuation service
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Auth-related errors
	ErrMissingSessionID = errors.New("session id is missing")
	ErrSessionExchange  = errors.New("failed to validate session")
	ErrInvalidSession   = errors.New("invalid session")
	ErrSessionExpired   = errors.New("session expired")
	ErrUserNotFound     = errors.New("user not found")
	ErrAccountInactive  = errors.New("account is inactive")

	// Catalog-related errors
	ErrVehicleNotFound     = errors.New("vehicle not found in catalog")
	ErrPriceTrendsNotFound = errors.New("price trends not found")

	// Saved valuation errors
	ErrSavedVehicleNotFound = errors.New("saved vehicle not found")

	// OCR-related errors
	ErrInvalidImage  = errors.New("invalid or undecodable image")
	ErrImageTooLarge = errors.New("image exceeds the maximum allowed size")
	ErrInvalidBase64 = errors.New("invalid base64 image payload")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsMissingSessionID(err error) bool {
	return errors.Is(err, ErrMissingSessionID)
}

func IsSessionExchange(err error) bool {
	return errors.Is(err, ErrSessionExchange)
}

func IsInvalidSession(err error) bool {
	return errors.Is(err, ErrInvalidSession)
}

func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsVehicleNotFound(err error) bool {
	return errors.Is(err, ErrVehicleNotFound)
}

func IsPriceTrendsNotFound(err error) bool {
	return errors.Is(err, ErrPriceTrendsNotFound)
}

func IsSavedVehicleNotFound(err error) bool {
	return errors.Is(err, ErrSavedVehicleNotFound)
}

func IsInvalidImage(err error) bool {
	return errors.Is(err, ErrInvalidImage)
}

func IsImageTooLarge(err error) bool {
	return errors.Is(err, ErrImageTooLarge)
}

func IsInvalidBase64(err error) bool {
	return errors.Is(err, ErrInvalidBase64)
}
