// internal/i18n/keys.go
package i18n

// Translation keys used across handlers and middleware.
const (
	// Session
	KeySessionRequired = "session.required"
	KeySessionInvalid  = "session.invalid"

	// Registration and balances
	KeyRegistrationRequired = "register.required"
	KeyAlreadyRegistered    = "register.already_registered"
	KeyInsufficientPoints   = "points.insufficient"

	// Generation
	KeyGenerationBusy     = "generation.busy"
	KeyGenerationFailed   = "generation.failed"
	KeyPromptRequired     = "generation.prompt_required"
	KeyTooManyReferences  = "generation.too_many_references"
	KeyGenerationDisabled = "generation.disabled"

	// Catalog, works, cart, orders
	KeyUnknownCategory  = "catalog.unknown_category"
	KeyWorkNotFound     = "works.not_found"
	KeyCartItemNotFound = "cart.item_not_found"

	// Payments
	KeyPaymentNotConfigured = "payment.not_configured"
	KeyPaymentFailed        = "payment.failed"

	// Validation and generic errors
	KeyValidationInvalid = "validation.invalid"
	KeyRateLimitExceeded = "rate_limit.exceeded"
	KeyInternalError     = "error.internal"
)
