package handlers

import (
	"github.com/SscSPs/disposal_backoffice/cmd/docs"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/middleware"
	"github.com/SscSPs/disposal_backoffice/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	r.GET("/health", getHealth)

	// Locally stored attachments are served back from the same host.
	if cfg.UploadBackend == config.UploadBackendLocal && cfg.UploadDir != "" {
		r.Static("/files", cfg.UploadDir)
	}

	if err := setupAPIRoutes(r, cfg, services); err != nil {
		return err
	}

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIRoutes configures the /api group and delegates to specific resource route registrations
func setupAPIRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	api := r.Group("/api")
	// Form metadata is public so the login screen can render before a token exists.
	if err := registerMetaRoutes(api, services.Registry); err != nil {
		return err
	}

	if cfg.AuthEnabled {
		api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	}
	RegisterAPIRoutes(api, services)
	return nil
}

// RegisterAPIRoutes registers every resource route on rg.
func RegisterAPIRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	RegisterInvoiceRoutes(rg, services.Invoice)
	RegisterDocumentRoutes(rg, "estimates", services.Estimate, "customer_id", "customer_request_id")
	RegisterDocumentRoutes(rg, "jobs", services.Job, "customer_id", "estimate_id", "assigned_to")
	RegisterDocumentRoutes(rg, "expenses", services.Expense, "vendor_id", "job_id", "category")
	RegisterAffidavitRoutes(rg, services.Affidavit)

	RegisterMasterDataRoutes(rg, "customers", services.Customer, "is_active")
	RegisterMasterDataRoutes(rg, "vendors", services.Vendor, "is_active")
	RegisterMasterDataRoutes(rg, "services", services.Service, "is_active")
	RegisterMasterDataRoutes(rg, "customer-requests", services.CustomerRequest, "customer_id")

	registerTotalsRoutes(rg, services.Totals)
	registerUploadRoutes(rg, services.Upload)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
