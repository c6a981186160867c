// internal/handlers/session.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/niceai/studio-backend/internal/config"
	"github.com/niceai/studio-backend/internal/idgen"
	"github.com/niceai/studio-backend/internal/services"
	"github.com/niceai/studio-backend/internal/session"
	"github.com/niceai/studio-backend/internal/utils"
)

type SessionHandler struct {
	profiles  *services.ProfileService
	ids       idgen.Generator
	navigator *session.Navigator
	config    *config.Config
}

func NewSessionHandler(profiles *services.ProfileService, ids idgen.Generator, nav *session.Navigator, cfg *config.Config) *SessionHandler {
	return &SessionHandler{
		profiles:  profiles,
		ids:       ids,
		navigator: nav,
		config:    cfg,
	}
}

// POST /v1/session
// Open endpoint. Mints a fresh storage key with a guest profile behind it
// and returns the bearer token for everything else.
func (h *SessionHandler) Open(c *gin.Context) {
	key := h.ids.StorageKey()

	token, err := utils.GenerateSessionToken(key, h.config.Session.TokenTTL)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	profile := h.profiles.Get(c.Request.Context(), key)

	utils.CreatedResponse(c, gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": h.config.Session.TokenTTL * 3600,
		"profile":    profile,
		"navigation": h.navigator.Current(key),
	})
}

type navigateRequest struct {
	Tab    string `json:"tab" binding:"required"`
	WorkID string `json:"work_id"`
}

// POST /v1/session/navigate
// Moves the session between tabs. Configure needs a work context and
// falls back to create without one; the response carries where the
// session actually landed.
func (h *SessionHandler) Navigate(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	state := h.navigator.Navigate(key, session.Tab(req.Tab), req.WorkID)
	utils.SuccessResponse(c, gin.H{"navigation": state})
}

// GET /v1/session/state
func (h *SessionHandler) State(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, gin.H{"navigation": h.navigator.Current(key)})
}
