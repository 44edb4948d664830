package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/platecost/internal/domain/models"
	"github.com/mamadbah2/platecost/internal/service/pricing"
	"github.com/mamadbah2/platecost/internal/service/recipes"
)

// PricingHandler prices a bare food cost without any recipe.
type PricingHandler struct {
	defaults recipes.Defaults
	logger   *zap.Logger
}

// NewPricingHandler constructs the HTTP handler adapter.
func NewPricingHandler(defaults recipes.Defaults, logger *zap.Logger) *PricingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingHandler{defaults: defaults, logger: logger}
}

type recommendRequest struct {
	FoodCost *float64 `json:"food_cost" binding:"required"`
	TargetGP *float64 `json:"target_gp"`
	TaxRate  *float64 `json:"tax_rate"`
	Strategy string   `json:"strategy"`
}

type recommendResponse struct {
	models.PricingResult
	Ladder []models.PricePoint `json:"ladder"`
}

// Recommend derives a menu price from a food cost.
func (h *PricingHandler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid pricing payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	target := valueOr(req.TargetGP, h.defaults.TargetGrossProfitPercent)
	taxRate := valueOr(req.TaxRate, h.defaults.TaxRate)
	strategy := h.defaults.Strategy
	if req.Strategy != "" {
		parsed, err := pricing.ParseStrategy(req.Strategy)
		if err != nil {
			abortWithError(c, err)
			return
		}
		strategy = parsed
	}

	result, err := pricing.RecommendPrice(*req.FoodCost, target, taxRate, strategy)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ladder, err := pricing.Ladder(*req.FoodCost, nil, taxRate, strategy)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recommendResponse{PricingResult: result, Ladder: ladder})
}

type evaluateRequest struct {
	FoodCost     *float64 `json:"food_cost" binding:"required"`
	PriceInclTax *float64 `json:"price_incl_tax" binding:"required"`
	TaxRate      *float64 `json:"tax_rate"`
}

// Evaluate reports the margin realized by an existing menu price.
func (h *PricingHandler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid evaluate payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := pricing.EvaluatePrice(*req.FoodCost, *req.PriceInclTax, valueOr(req.TaxRate, h.defaults.TaxRate))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
