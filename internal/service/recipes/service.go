// Package recipes runs costing passes over stored recipes and prices them.
package recipes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/platecost/internal/domain/models"
	repo "github.com/mamadbah2/platecost/internal/repository/mongodb"
	"github.com/mamadbah2/platecost/internal/service/conversion"
	"github.com/mamadbah2/platecost/internal/service/costing"
	"github.com/mamadbah2/platecost/internal/service/pricing"
)

var (
	// ErrRecipeNotFound is returned for an unknown recipe id.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrInvalidRecipe is returned when a recipe cannot be stored as given.
	ErrInvalidRecipe = errors.New("invalid recipe")
)

// Defaults holds the pricing configuration applied when a recipe or request
// does not carry its own.
type Defaults struct {
	TaxRate                  float64
	TargetGrossProfitPercent float64
	Strategy                 models.RoundingStrategy
	StrictUnits              bool
}

// PricingOptions overrides the pricing configuration for one request.
type PricingOptions struct {
	TargetGrossProfitPercent *float64
	Strategy                 models.RoundingStrategy
	TaxRate                  *float64
}

// QuoteInput is an unsaved recipe priced straight from the editing form.
type QuoteInput struct {
	Ingredients []models.Ingredient
	Lines       []models.RecipeLine
	Portions    int
	Pricing     PricingOptions
}

// Service costs and prices recipes held in the repository.
type Service struct {
	repo      repo.Repository
	densities conversion.DensityProvider
	defaults  Defaults
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new recipe service instance. A nil densities provider
// uses the built-in table.
func NewService(repository repo.Repository, densities conversion.DensityProvider, defaults Defaults, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if densities == nil {
		densities = conversion.DefaultDensities(conversion.DefaultDensity)
	}
	if defaults.Strategy == "" {
		defaults.Strategy = models.RoundingCharm
	}
	return &Service{
		repo:      repository,
		densities: densities,
		defaults:  defaults,
		logger:    logger,
		now:       time.Now,
	}
}

// ListRecipes returns every stored recipe.
func (s *Service) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	return s.repo.ListRecipes(ctx)
}

// SaveRecipe validates and stores a recipe.
func (s *Service) SaveRecipe(ctx context.Context, recipe models.Recipe) error {
	if recipe.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecipe)
	}
	if recipe.Portions <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRecipe, costing.ErrInvalidPortions)
	}
	if recipe.TargetGrossProfitPercent < 0 || recipe.TargetGrossProfitPercent >= 100 {
		return fmt.Errorf("%w: %v", ErrInvalidRecipe, pricing.ErrInvalidTargetGP)
	}
	if recipe.Strategy != "" {
		strategy, err := pricing.ParseStrategy(string(recipe.Strategy))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
		}
		recipe.Strategy = strategy
	}
	for i, line := range recipe.Lines {
		if line.IngredientID == "" || line.Quantity <= 0 {
			return fmt.Errorf("%w: line %d needs an ingredient and a positive quantity", ErrInvalidRecipe, i)
		}
	}
	if err := s.repo.SaveRecipe(ctx, recipe); err != nil {
		return fmt.Errorf("save recipe: %w", err)
	}
	return nil
}

// ListIngredients returns the price list.
func (s *Service) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return s.repo.ListIngredients(ctx)
}

// CostRecipe costs a stored recipe, prices it and, when persist is set, stores
// a snapshot of the report. A recipe without positive portions yields a report
// holding only the costing, together with costing.ErrInvalidPortions.
func (s *Service) CostRecipe(ctx context.Context, id string, opts PricingOptions, persist bool) (models.CostingReport, error) {
	recipe, err := s.repo.GetRecipe(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.CostingReport{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}
	if err != nil {
		return models.CostingReport{}, fmt.Errorf("load recipe: %w", err)
	}

	ingredients, err := s.repo.GetIngredients(ctx, recipe.IngredientIDs())
	if err != nil {
		return models.CostingReport{}, fmt.Errorf("load ingredients: %w", err)
	}

	if opts.TargetGrossProfitPercent == nil && recipe.TargetGrossProfitPercent > 0 {
		target := recipe.TargetGrossProfitPercent
		opts.TargetGrossProfitPercent = &target
	}
	if opts.Strategy == "" {
		opts.Strategy = recipe.Strategy
	}

	report, err := s.price(ctx, ingredients, recipe.Lines, recipe.Portions, opts)
	report.RecipeID = recipe.ID
	report.RecipeName = recipe.Name
	s.logCosting(recipe.ID, report.Costing)
	if err != nil {
		return report, err
	}

	if recipe.MenuPriceInclTax > 0 {
		menu, err := pricing.EvaluatePrice(report.Costing.Summary.CostPerPortion, recipe.MenuPriceInclTax, report.Pricing.TaxRate)
		if err != nil {
			return report, fmt.Errorf("evaluate menu price: %w", err)
		}
		report.MenuPrice = &menu
	}

	if persist {
		snapshot := models.CostingSnapshot{
			ID:         uuid.NewString(),
			RecipeID:   recipe.ID,
			RecipeName: recipe.Name,
			Costing:    report.Costing,
			Pricing:    report.Pricing,
			CreatedAt:  s.now().UTC(),
		}
		if err := s.repo.SaveCostingSnapshot(ctx, snapshot); err != nil {
			return report, fmt.Errorf("save snapshot: %w", err)
		}
		report.SnapshotID = snapshot.ID
		s.logger.Info("costing snapshot saved",
			zap.String("recipe_id", recipe.ID),
			zap.String("snapshot_id", snapshot.ID),
			zap.Float64("cost_per_portion", report.Costing.Summary.CostPerPortion),
		)
	}

	return report, nil
}

// Quote costs and prices caller-supplied ingredients and lines without
// touching the recipe store.
func (s *Service) Quote(ctx context.Context, in QuoteInput) (models.CostingReport, error) {
	report, err := s.price(ctx, in.Ingredients, in.Lines, in.Portions, in.Pricing)
	s.logCosting("", report.Costing)
	return report, err
}

// ReviewMargins checks every recipe with a menu price against its target
// gross profit and returns those falling short.
func (s *Service) ReviewMargins(ctx context.Context) ([]models.MarginAlert, error) {
	recipes, err := s.repo.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	var alerts []models.MarginAlert
	for _, recipe := range recipes {
		if recipe.MenuPriceInclTax <= 0 {
			continue
		}

		report, err := s.CostRecipe(ctx, recipe.ID, PricingOptions{}, false)
		if unpriceable(err) {
			s.logger.Warn("skip recipe in margin review", zap.String("recipe_id", recipe.ID), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cost recipe %s: %w", recipe.ID, err)
		}

		target := report.Pricing.TargetGrossProfitPercent
		actual := report.MenuPrice.ActualGrossProfitPercent
		if actual >= target {
			continue
		}

		alerts = append(alerts, models.MarginAlert{
			RecipeID:                 recipe.ID,
			RecipeName:               recipe.Name,
			CostPerPortion:           report.Costing.Summary.CostPerPortion,
			MenuPriceInclTax:         recipe.MenuPriceInclTax,
			TargetGrossProfitPercent: target,
			ActualGrossProfitPercent: actual,
			RecommendedPriceInclTax:  report.Pricing.SellPriceInclTax,
			SkippedLines:             len(report.Costing.Skipped),
		})
	}

	s.logger.Info("margin review complete", zap.Int("recipes", len(recipes)), zap.Int("alerts", len(alerts)))
	return alerts, nil
}

// unpriceable reports errors caused by a recipe's own data rather than storage.
func unpriceable(err error) bool {
	for _, target := range []error{
		ErrRecipeNotFound,
		costing.ErrInvalidPortions,
		pricing.ErrInvalidTargetGP,
		pricing.ErrUnknownStrategy,
		pricing.ErrInvalidTaxRate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Service) price(ctx context.Context, ingredients []models.Ingredient, lines []models.RecipeLine, portions int, opts PricingOptions) (models.CostingReport, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return models.CostingReport{}, err
	}

	var report models.CostingReport
	report.Costing, err = calc.CostRecipe(ingredients, lines, portions)
	if err != nil {
		return report, err
	}

	target := s.defaults.TargetGrossProfitPercent
	if opts.TargetGrossProfitPercent != nil {
		target = *opts.TargetGrossProfitPercent
	}
	taxRate := s.defaults.TaxRate
	if opts.TaxRate != nil {
		taxRate = *opts.TaxRate
	}
	strategy := s.defaults.Strategy
	if opts.Strategy != "" {
		strategy = opts.Strategy
	}

	foodCost := report.Costing.Summary.CostPerPortion
	report.Pricing, err = pricing.RecommendPrice(foodCost, target, taxRate, strategy)
	if err != nil {
		return report, fmt.Errorf("recommend price: %w", err)
	}
	report.Ladder, err = pricing.Ladder(foodCost, nil, taxRate, strategy)
	if err != nil {
		return report, fmt.Errorf("price ladder: %w", err)
	}
	return report, nil
}

// calculator layers stored density overrides over the base table.
func (s *Service) calculator(ctx context.Context) (*costing.Calculator, error) {
	densities := s.densities
	if s.repo != nil {
		overrides, err := s.repo.ListDensityOverrides(ctx)
		if err != nil {
			return nil, fmt.Errorf("load density overrides: %w", err)
		}
		if len(overrides) > 0 {
			entries := make([]conversion.DensityEntry, 0, len(overrides))
			for _, o := range overrides {
				entries = append(entries, conversion.DensityEntry{Name: o.Name, GramsPerML: o.GramsPerML})
			}
			densities = conversion.NewDensityOverrides(entries, densities)
		}
	}

	converter := conversion.NewConverter(densities)
	return costing.NewCalculator(converter, costing.WithStrictUnits(s.defaults.StrictUnits)), nil
}

func (s *Service) logCosting(recipeID string, result models.RecipeCosting) {
	for _, skipped := range result.Skipped {
		s.logger.Warn("recipe line skipped",
			zap.String("recipe_id", recipeID),
			zap.Int("line", skipped.Index),
			zap.String("ingredient_id", skipped.IngredientID),
			zap.String("reason", skipped.Reason),
		)
	}
	for _, line := range result.Lines {
		for _, warning := range line.Warnings {
			s.logger.Warn("recipe line warning",
				zap.String("recipe_id", recipeID),
				zap.String("ingredient_id", line.IngredientID),
				zap.String("warning", warning),
			)
		}
	}
}
