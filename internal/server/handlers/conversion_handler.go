package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/platecost/internal/service/conversion"
)

// ConversionHandler exposes the unit converter over HTTP.
type ConversionHandler struct {
	converter *conversion.Converter
	logger    *zap.Logger
}

// NewConversionHandler constructs the HTTP handler adapter.
func NewConversionHandler(converter *conversion.Converter, logger *zap.Logger) *ConversionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if converter == nil {
		converter = conversion.NewConverter(nil)
	}
	return &ConversionHandler{converter: converter, logger: logger}
}

type convertRequest struct {
	Value      float64 `json:"value"`
	From       string  `json:"from" binding:"required"`
	To         string  `json:"to" binding:"required"`
	Ingredient string  `json:"ingredient"`
}

// Convert converts a quantity between units. Units that cannot be converted
// answer 422 with the pass-through result alongside the error.
func (h *ConversionHandler) Convert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid conversion payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.converter.Convert(req.Value, req.From, req.To, req.Ingredient)
	if err != nil {
		h.logger.Info("unit not converted", zap.String("from", req.From), zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "result": result})
		return
	}

	c.JSON(http.StatusOK, result)
}
