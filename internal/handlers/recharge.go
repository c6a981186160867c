// internal/handlers/recharge.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/niceai/studio-backend/internal/i18n"
	"github.com/niceai/studio-backend/internal/services"
	"github.com/niceai/studio-backend/internal/utils"
)

type RechargeHandler struct {
	payments *services.PaymentService
}

func NewRechargeHandler(payments *services.PaymentService) *RechargeHandler {
	return &RechargeHandler{payments: payments}
}

type rechargeRequest struct {
	Points int `json:"points" binding:"required" validate:"min=100,max=100000"`
}

// POST /v1/recharge
// Opens a Stripe payment for a points top-up.
func (h *RechargeHandler) Create(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	var req rechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	intent, err := h.payments.CreateRechargeIntent(c.Request.Context(), key, req.Points)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, intent)
}

type confirmRechargeRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

// POST /v1/recharge/confirm
// Credits the purchased points once Stripe reports the payment succeeded.
func (h *RechargeHandler) Confirm(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	var req confirmRechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	profile, err := h.payments.ConfirmRecharge(c.Request.Context(), key, req.PaymentIntentID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotConfigured) {
			respondServiceError(c, err)
			return
		}
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentFailed), err.Error())
		return
	}
	utils.SuccessResponse(c, profile)
}
