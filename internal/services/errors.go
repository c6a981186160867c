// internal/services/errors.go
package services

import "errors"

// Sentinel errors the handlers translate into API responses.
var (
	ErrRegistrationRequired = errors.New("registration required")
	ErrInsufficientPoints   = errors.New("insufficient points")
	ErrGenerationBusy       = errors.New("a generation is already in flight")
	ErrAlreadyRegistered    = errors.New("profile is already registered")
	ErrWorkNotFound         = errors.New("work not found")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrPromptRequired       = errors.New("prompt is required")
	ErrTooManyReferences    = errors.New("too many reference images")
	ErrGenerationFailed     = errors.New("generation failed")
	ErrGenerationDisabled   = errors.New("generation is not configured")
	ErrPaymentNotConfigured = errors.New("payments are not configured")
)
