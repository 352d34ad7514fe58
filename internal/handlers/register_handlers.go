package handlers

import (
	"log/slog"
	"time"

	"github.com/SscSPs/pos_ledger/cmd/docs"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/SscSPs/pos_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", newHomeHandler(cfg.Location, time.Now))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := setupAPIV1Routes(r, cfg, services); err != nil {
		return err
	}

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) error {
	lim, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		slog.Error("Invalid RATE_LIMIT", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		return err
	}

	v1 := r.Group("/api/v1",
		middleware.MetricsMiddleware(),
		middleware.RateLimit(lim),
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
	)

	RegisterTransactionRoutes(v1, service.Transaction)
	RegisterCartRoutes(v1, service.Transaction)
	RegisterInventoryRoutes(v1, service.Inventory)
	RegisterExpenseRoutes(v1, service.Expense, cfg.Location)
	RegisterReportingRoutes(v1, service.Reporting, cfg.Location)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
