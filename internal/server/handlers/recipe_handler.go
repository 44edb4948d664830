package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/platecost/internal/domain/models"
	"github.com/mamadbah2/platecost/internal/service/catalog"
	"github.com/mamadbah2/platecost/internal/service/costing"
	"github.com/mamadbah2/platecost/internal/service/pricing"
	"github.com/mamadbah2/platecost/internal/service/recipes"
)

// RecipeService describes the recipe operations the HTTP layer can perform.
type RecipeService interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	SaveRecipe(ctx context.Context, recipe models.Recipe) error
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	CostRecipe(ctx context.Context, id string, opts recipes.PricingOptions, persist bool) (models.CostingReport, error)
	Quote(ctx context.Context, in recipes.QuoteInput) (models.CostingReport, error)
	ReviewMargins(ctx context.Context) ([]models.MarginAlert, error)
}

// PriceListSyncer imports the ingredient price list on demand.
type PriceListSyncer interface {
	SyncPriceList(ctx context.Context) (catalog.SyncResult, error)
}

// RecipeHandler serves recipes, their costing reports and the margin review.
type RecipeHandler struct {
	svc    RecipeService
	syncer PriceListSyncer
	logger *zap.Logger
}

// NewRecipeHandler constructs the HTTP handler adapter. A nil syncer disables
// the price list sync endpoint.
func NewRecipeHandler(svc RecipeService, syncer PriceListSyncer, logger *zap.Logger) *RecipeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeHandler{svc: svc, syncer: syncer, logger: logger}
}

// ListRecipes returns every stored recipe.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	list, err := h.svc.ListRecipes(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing recipes", zap.Error(err))
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": list})
}

// SaveRecipe stores the recipe under the id in the path.
func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		h.logger.Warn("invalid recipe payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	recipe.ID = c.Param("id")

	if err := h.svc.SaveRecipe(c.Request.Context(), recipe); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.Error("failed saving recipe", zap.String("recipe_id", recipe.ID), zap.Error(err))
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// ListIngredients returns the price list.
func (h *RecipeHandler) ListIngredients(c *gin.Context) {
	list, err := h.svc.ListIngredients(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing ingredients", zap.Error(err))
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": list})
}

// GetCosting costs a recipe without storing anything.
func (h *RecipeHandler) GetCosting(c *gin.Context) {
	h.costing(c, false)
}

// CreateCosting costs a recipe and stores a snapshot of the report.
func (h *RecipeHandler) CreateCosting(c *gin.Context) {
	h.costing(c, true)
}

func (h *RecipeHandler) costing(c *gin.Context, persist bool) {
	opts, err := pricingOptionsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	report, err := h.svc.CostRecipe(c.Request.Context(), id, opts, persist)
	if errors.Is(err, costing.ErrInvalidPortions) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "costing": report.Costing})
		return
	}
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.Error("failed costing recipe", zap.String("recipe_id", id), zap.Error(err))
		}
		abortWithError(c, err)
		return
	}

	status := http.StatusOK
	if persist {
		status = http.StatusCreated
	}
	c.JSON(status, report)
}

type quoteRequest struct {
	Ingredients []models.Ingredient `json:"ingredients" binding:"required"`
	Lines       []models.RecipeLine `json:"lines" binding:"required"`
	Portions    int                 `json:"portions"`
	TargetGP    *float64            `json:"target_gp"`
	TaxRate     *float64            `json:"tax_rate"`
	Strategy    string              `json:"strategy"`
}

// Quote costs and prices an unsaved recipe.
func (h *RecipeHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid quote payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	in := recipes.QuoteInput{
		Ingredients: req.Ingredients,
		Lines:       req.Lines,
		Portions:    req.Portions,
		Pricing: recipes.PricingOptions{
			TargetGrossProfitPercent: req.TargetGP,
			TaxRate:                  req.TaxRate,
		},
	}
	if req.Strategy != "" {
		strategy, err := pricing.ParseStrategy(req.Strategy)
		if err != nil {
			abortWithError(c, err)
			return
		}
		in.Pricing.Strategy = strategy
	}

	report, err := h.svc.Quote(c.Request.Context(), in)
	if errors.Is(err, costing.ErrInvalidPortions) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "costing": report.Costing})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ReviewMargins lists recipes whose menu price misses the target margin.
func (h *RecipeHandler) ReviewMargins(c *gin.Context) {
	alerts, err := h.svc.ReviewMargins(c.Request.Context())
	if err != nil {
		h.logger.Error("failed reviewing margins", zap.Error(err))
		abortWithError(c, err)
		return
	}
	if alerts == nil {
		alerts = []models.MarginAlert{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// SyncPriceList imports the spreadsheet price list.
func (h *RecipeHandler) SyncPriceList(c *gin.Context) {
	if h.syncer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price list spreadsheet not configured"})
		return
	}

	result, err := h.syncer.SyncPriceList(c.Request.Context())
	if err != nil {
		h.logger.Error("failed syncing price list", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to sync price list"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func pricingOptionsFromQuery(c *gin.Context) (recipes.PricingOptions, error) {
	var opts recipes.PricingOptions

	if raw := c.Query("target_gp"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, errors.New("target_gp must be a number")
		}
		opts.TargetGrossProfitPercent = &v
	}
	if raw := c.Query("tax_rate"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, errors.New("tax_rate must be a number")
		}
		opts.TaxRate = &v
	}
	if raw := c.Query("strategy"); raw != "" {
		strategy, err := pricing.ParseStrategy(raw)
		if err != nil {
			return opts, err
		}
		opts.Strategy = strategy
	}
	return opts, nil
}
