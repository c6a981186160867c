// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/niceai/studio-backend/internal/catalog"
	"github.com/niceai/studio-backend/internal/i18n"
	"github.com/niceai/studio-backend/internal/models"
	"github.com/niceai/studio-backend/internal/utils"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// GET /v1/catalog
func (h *CatalogHandler) List(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"categories": catalog.All(),
		"styles":     catalog.Styles(),
		"economy": gin.H{
			"generation_cost":  catalog.GenerationCost,
			"points_per_cny":   catalog.PointsPerCNY,
			"gold_to_cny_rate": catalog.GoldToCNYRate,
			"royalty_gold":     catalog.RoyaltyGold,
			"initial_points":   catalog.InitialPoints,
			"referral_bonus":   catalog.ReferralBonusPoints,
		},
	})
}

// GET /v1/catalog/:category
func (h *CatalogHandler) Get(c *gin.Context) {
	id := models.Category(c.Param("category"))
	info, ok := catalog.Get(id)
	if !ok {
		utils.NotFoundResponse(c, i18n.KeyUnknownCategory)
		return
	}
	utils.SuccessResponse(c, info)
}

type priceQuoteRequest struct {
	Category string            `json:"category" binding:"required" validate:"category"`
	Specs    map[string]string `json:"specs"`
}

// POST /v1/catalog/price
// Computes the price and lead time for a spec selection without touching
// any profile state.
func (h *CatalogHandler) PriceQuote(c *gin.Context) {
	var req priceQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	info, ok := catalog.Get(models.Category(req.Category))
	if !ok {
		utils.NotFoundResponse(c, i18n.KeyUnknownCategory)
		return
	}
	stats := catalog.ComputeStats(info, req.Specs)
	utils.SuccessResponse(c, gin.H{
		"price":     stats.Price,
		"lead_time": stats.LeadTime,
	})
}
