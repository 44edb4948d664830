package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/platecost/internal/config"
	"github.com/mamadbah2/platecost/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted on the router.
type Handlers struct {
	Conversion *handlers.ConversionHandler
	Pricing    *handlers.PricingHandler
	Recipes    *handlers.RecipeHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/conversions", h.Conversion.Convert)

		api.POST("/pricing/recommend", h.Pricing.Recommend)
		api.POST("/pricing/evaluate", h.Pricing.Evaluate)

		api.POST("/costings/quote", h.Recipes.Quote)
		api.GET("/recipes", h.Recipes.ListRecipes)
		api.PUT("/recipes/:id", h.Recipes.SaveRecipe)
		api.GET("/recipes/:id/costing", h.Recipes.GetCosting)
		api.POST("/recipes/:id/costing", h.Recipes.CreateCosting)
		api.GET("/margins/review", h.Recipes.ReviewMargins)

		api.GET("/ingredients", h.Recipes.ListIngredients)
		api.POST("/catalog/sync", h.Recipes.SyncPriceList)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// corsConfig allows every origin when none is listed or "*" is among them.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request completed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}
