// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/niceai/studio-backend/internal/services"
	"github.com/niceai/studio-backend/internal/utils"
)

type OrderHandler struct {
	profiles *services.ProfileService
}

func NewOrderHandler(profiles *services.ProfileService) *OrderHandler {
	return &OrderHandler{profiles: profiles}
}

// GET /v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}
	profile := h.profiles.Get(c.Request.Context(), key)
	utils.SuccessResponse(c, gin.H{"orders": profile.Orders})
}

type placeOrderRequest struct {
	WorkID   string            `json:"work_id" binding:"required"`
	Specs    map[string]string `json:"specs" binding:"required"`
	ImageRef string            `json:"image_ref"`
}

// POST /v1/orders
// Direct order from the configure screen. The cart is not involved and
// stays untouched.
func (h *OrderHandler) Place(c *gin.Context) {
	key, ok := storageKey(c)
	if !ok {
		return
	}

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	order, err := h.profiles.PlaceOrder(c.Request.Context(), key, &services.OrderDraft{
		WorkID:   req.WorkID,
		Specs:    req.Specs,
		ImageRef: req.ImageRef,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, order)
}
