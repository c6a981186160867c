// internal/handlers/work.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/niceai/studio-backend/internal/services"
	"github.com/niceai/studio-backend/internal/session"
	"github.com/niceai/studio-backend/internal/utils"
)

type WorkHandler struct {
	profiles  *services.ProfileService
	navigator *session.Navigator
}

func NewWorkHandler(profiles *services.ProfileService, nav *session.Navigator) *WorkHandler {
	return &WorkHandler{
		profiles:  profiles,
		navigator: nav,
	}
}

// GET /v1/works
func (h *WorkHandler) List(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}
	profile := h.profiles.Get(c.Request.Context(), key)
	utils.SuccessResponse(c, gin.H{"works": profile.Works})
}

// GET /v1/gallery
// Public works ranked by hot score.
func (h *WorkHandler) Gallery(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}
	profile := h.profiles.Get(c.Request.Context(), key)
	utils.SuccessResponse(c, gin.H{"works": profile.PublicWorks()})
}

// POST /v1/works/:id/like
func (h *WorkHandler) Like(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}
	profile, err := h.profiles.LikeWork(c.Request.Context(), key, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"works": profile.Works})
}

// POST /v1/works/:id/visibility
func (h *WorkHandler) ToggleVisibility(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}
	profile, err := h.profiles.ToggleVisibility(c.Request.Context(), key, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"works": profile.Works})
}

type quoteRequest struct {
	SaveToLibrary bool `json:"save_to_library"`
}

// POST /v1/works/:id/quote
// Pulls a gallery work into the configure flow, optionally copying it
// into the library. Quoting the same design twice reuses the first copy.
func (h *WorkHandler) Quote(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	work, err := h.profiles.QuoteWork(c.Request.Context(), key, c.Param("id"), req.SaveToLibrary)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	state := h.navigator.SetWorkContext(key, work.ID)
	utils.SuccessResponse(c, gin.H{
		"work":       work,
		"navigation": state,
	})
}

// DELETE /v1/works/:id
// Orders keep their own image snapshot, so deleting a work never breaks
// order history. A configure session on the deleted work drops back to
// create.
func (h *WorkHandler) Delete(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	profile, err := h.profiles.DeleteWork(c.Request.Context(), key, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.navigator.ClearWorkContext(key, c.Param("id"))
	utils.SuccessResponse(c, gin.H{"works": profile.Works})
}
