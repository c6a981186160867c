// internal/handlers/generation.go
package handlers

import (
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/niceai/studio-backend/internal/models"
	"github.com/niceai/studio-backend/internal/services"
	"github.com/niceai/studio-backend/internal/session"
	"github.com/niceai/studio-backend/internal/utils"
)

type GenerationHandler struct {
	generation *services.GenerationService
	navigator  *session.Navigator
}

func NewGenerationHandler(generation *services.GenerationService, nav *session.Navigator) *GenerationHandler {
	return &GenerationHandler{
		generation: generation,
		navigator:  nav,
	}
}

type generateRequest struct {
	Prompt          string   `json:"prompt" binding:"required"`
	Category        string   `json:"category" binding:"required" validate:"category"`
	StyleID         string   `json:"style_id"`
	ReferenceImages []string `json:"reference_images" validate:"max=5"`
}

// POST /v1/generate
// Runs the full generation flow and lands the session on the configure
// tab for the new work. Reference images arrive base64-encoded, with or
// without a data URL prefix.
func (h *GenerationHandler) Generate(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	refs := make([][]byte, 0, len(req.ReferenceImages))
	for _, encoded := range req.ReferenceImages {
		data, err := decodeImage(encoded)
		if err != nil {
			utils.BadRequestResponse(c, "", "reference images must be base64 encoded")
			return
		}
		refs = append(refs, data)
	}

	work, err := h.generation.Generate(c.Request.Context(), key, &services.GenerateInput{
		Prompt:          req.Prompt,
		Category:        models.Category(req.Category),
		StyleID:         req.StyleID,
		ReferenceImages: refs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	state := h.navigator.SetWorkContext(key, work.ID)
	utils.CreatedResponse(c, gin.H{
		"work":       work,
		"navigation": state,
	})
}

type refreshMockupRequest struct {
	Specs map[string]string `json:"specs" binding:"required"`

	// PreviousRef is the preview currently on screen. It is handed to the
	// model for layout continuity and cleaned up after a successful refresh.
	PreviousRef string `json:"previous_ref"`
}

// POST /v1/works/:id/mockup
// Re-renders the mockup for the current spec selection. Failures are soft:
// an empty mockup_ref tells the client to keep showing the previous one.
func (h *GenerationHandler) RefreshMockup(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	var req refreshMockupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	ref, err := h.generation.RefreshMockup(c.Request.Context(), key, c.Param("id"), req.Specs, req.PreviousRef)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"mockup_ref": ref})
}

func decodeImage(encoded string) ([]byte, error) {
	if idx := strings.Index(encoded, ";base64,"); idx >= 0 {
		encoded = encoded[idx+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(encoded)
}
