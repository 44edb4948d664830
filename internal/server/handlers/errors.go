package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/platecost/internal/service/catalog"
	"github.com/mamadbah2/platecost/internal/service/conversion"
	"github.com/mamadbah2/platecost/internal/service/costing"
	"github.com/mamadbah2/platecost/internal/service/pricing"
	"github.com/mamadbah2/platecost/internal/service/recipes"
)

var unprocessable = []error{
	conversion.ErrUnknownUnit,
	conversion.ErrIncompatibleUnits,
	costing.ErrInvalidQuantity,
	costing.ErrInvalidTrimWaste,
	costing.ErrZeroYield,
	costing.ErrInvalidYield,
	costing.ErrInvalidPortions,
	pricing.ErrInvalidTargetGP,
	pricing.ErrInvalidTaxRate,
	pricing.ErrInvalidFoodCost,
	pricing.ErrInvalidPrice,
	pricing.ErrUnknownStrategy,
	recipes.ErrInvalidRecipe,
	catalog.ErrInvalidRow,
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, recipes.ErrRecipeNotFound) {
		return http.StatusNotFound
	}
	for _, target := range unprocessable {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
