// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/niceai/studio-backend/internal/services"
	"github.com/niceai/studio-backend/internal/utils"
)

type CartHandler struct {
	profiles *services.ProfileService
}

func NewCartHandler(profiles *services.ProfileService) *CartHandler {
	return &CartHandler{profiles: profiles}
}

// GET /v1/cart
func (h *CartHandler) List(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}
	profile := h.profiles.Get(c.Request.Context(), key)
	utils.SuccessResponse(c, gin.H{"items": profile.Cart})
}

type addToCartRequest struct {
	WorkID    string            `json:"work_id" binding:"required"`
	Specs     map[string]string `json:"specs" binding:"required"`
	MockupRef string            `json:"mockup_ref"`
}

// POST /v1/cart
// Snapshots the work with the chosen specs. Price and lead time come from
// the catalog, never from the client.
func (h *CartHandler) Add(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	item, err := h.profiles.AddToCart(c.Request.Context(), key, req.WorkID, req.Specs, req.MockupRef)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, item)
}

// DELETE /v1/cart/:id
// Removing an id that is no longer present succeeds quietly.
func (h *CartHandler) Remove(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	if err := h.profiles.RemoveFromCart(c.Request.Context(), key, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"removed": c.Param("id")})
}

// POST /v1/cart/:id/order
// Places an order for one cart item at its frozen price and removes the
// item in the same step.
func (h *CartHandler) Order(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	order, err := h.profiles.PlaceOrderFromCart(c.Request.Context(), key, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, order)
}
