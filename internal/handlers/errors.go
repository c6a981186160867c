// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/niceai/studio-backend/internal/catalog"
	"github.com/niceai/studio-backend/internal/i18n"
	"github.com/niceai/studio-backend/internal/services"
	"github.com/niceai/studio-backend/internal/utils"
)

// respondServiceError translates service sentinels into API errors. The
// fallthrough is a 500 with no internal detail leaked.
func respondServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrRegistrationRequired):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyRegistrationRequired))
	case errors.Is(err, services.ErrAlreadyRegistered):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAlreadyRegistered))
	case errors.Is(err, services.ErrInsufficientPoints):
		utils.ErrorResponse(c, http.StatusPaymentRequired, "INSUFFICIENT_POINTS",
			i18n.T(lang, i18n.KeyInsufficientPoints), nil)
	case errors.Is(err, services.ErrGenerationBusy):
		utils.ErrorResponse(c, http.StatusConflict, "GENERATION_BUSY",
			i18n.T(lang, i18n.KeyGenerationBusy), nil)
	case errors.Is(err, services.ErrGenerationDisabled):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "GENERATION_DISABLED",
			i18n.T(lang, i18n.KeyGenerationDisabled), nil)
	case errors.Is(err, services.ErrGenerationFailed):
		utils.ErrorResponse(c, http.StatusBadGateway, "GENERATION_FAILED",
			i18n.T(lang, i18n.KeyGenerationFailed), nil)
	case errors.Is(err, services.ErrPromptRequired):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPromptRequired), nil)
	case errors.Is(err, services.ErrTooManyReferences):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyTooManyReferences, catalog.MaxReferenceImages), nil)
	case errors.Is(err, services.ErrUnknownCategory):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUnknownCategory), nil)
	case errors.Is(err, services.ErrWorkNotFound):
		utils.NotFoundResponse(c, i18n.KeyWorkNotFound)
	case errors.Is(err, services.ErrCartItemNotFound):
		utils.NotFoundResponse(c, i18n.KeyCartItemNotFound)
	case errors.Is(err, services.ErrPaymentNotConfigured):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "PAYMENT_NOT_CONFIGURED",
			i18n.T(lang, i18n.KeyPaymentNotConfigured), nil)
	default:
		utils.InternalErrorResponse(c, "")
	}
}

func storageKey(c *gin.Context) (string, bool) {
	key, ok := utils.GetStorageKeyFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return key, ok
}
