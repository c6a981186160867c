// internal/handlers/profile.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/niceai/studio-backend/internal/services"
	"github.com/niceai/studio-backend/internal/utils"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GET /v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, h.profiles.Get(c.Request.Context(), key))
}

type updateNicknameRequest struct {
	Nickname string `json:"nickname" binding:"required" validate:"min=1,max=30"`
}

// PUT /v1/profile/nickname
func (h *ProfileHandler) UpdateNickname(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	var req updateNicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	profile, err := h.profiles.UpdateNickname(c.Request.Context(), key, req.Nickname)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, profile)
}

type registerRequest struct {
	ReferralCode string `json:"referral_code" validate:"omitempty,referral_code"`
}

// POST /v1/profile/register
// Promotes the guest profile to a registered one, granting the signup
// bonus and the referral bonus when a code was supplied.
func (h *ProfileHandler) Register(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	profile, err := h.profiles.RegisterOrLogin(c.Request.Context(), key, req.ReferralCode)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, profile)
}
