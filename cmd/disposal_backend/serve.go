package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/core/services"
	"github.com/SscSPs/disposal_backoffice/internal/handlers"
	"github.com/SscSPs/disposal_backoffice/internal/middleware"
	"github.com/SscSPs/disposal_backoffice/internal/platform/config"
	"github.com/SscSPs/disposal_backoffice/internal/platform/email"
	"github.com/SscSPs/disposal_backoffice/internal/platform/events"
	"github.com/SscSPs/disposal_backoffice/internal/platform/storage"
	"github.com/SscSPs/disposal_backoffice/internal/repositories/database/pgsql"
	"github.com/SscSPs/disposal_backoffice/internal/utils"
	"github.com/SscSPs/disposal_backoffice/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().Bool("migrate", true, "Apply pending database migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.IsProduction)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runMigrations, _ := cmd.Flags().GetBool("migrate"); runMigrations {
		logger.Info("Running database migrations...")
		if _, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp, logger); err != nil {
			return err
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	collab, closeCollab, err := buildCollaborators(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCollab()
	if posthogClient.IsInitialized() {
		collab.Analytics = posthogClient
	}

	serviceContainer := services.NewServiceContainer(
		pgsql.NewRepositoryProvider(dbPool),
		collab,
		services.PricingDefaults{TaxRate: cfg.DefaultTaxRate},
	)

	router, err := newRouter(cfg, logger, collab.Analytics)
	if err != nil {
		return err
	}
	if err := handlers.RegisterRoutes(router, cfg, serviceContainer); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// buildCollaborators connects the optional outside systems. Only configured ones are set
// so the services see a nil interface for the rest.
func buildCollaborators(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.Collaborators, func(), error) {
	collab := services.Collaborators{MaxUploadBytes: cfg.MaxUploadBytes}
	closers := make([]func(), 0, 1)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	switch cfg.UploadBackend {
	case config.UploadBackendDrive:
		uploader, err := storage.NewDriveUploader(ctx, cfg.GoogleDriveCredentialsFile, cfg.GoogleDriveFolderID)
		if err != nil {
			return collab, closeAll, fmt.Errorf("failed to initialize Google Drive uploads: %w", err)
		}
		collab.Uploader = uploader
	default:
		uploader, err := storage.NewLocalUploader(cfg.UploadDir, cfg.UploadBaseURL)
		if err != nil {
			return collab, closeAll, fmt.Errorf("failed to initialize local uploads: %w", err)
		}
		collab.Uploader = uploader
	}
	logger.Info("Attachment storage ready", slog.String("backend", cfg.UploadBackend))

	if cfg.SMTPHost != "" {
		collab.Mailer = email.NewSMTPMailer(email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	if cfg.NATSURL != "" {
		publisher, err := events.Connect(cfg.NATSURL, logger)
		if err != nil {
			// Status events are informational; the API keeps working without the broker.
			logger.Error("Failed to connect to NATS, status events disabled", slog.String("error", err.Error()))
		} else {
			collab.Events = publisher
			closers = append(closers, func() {
				if err := publisher.Close(); err != nil {
					logger.Error("Failed to drain NATS connection", slog.String("error", err.Error()))
				}
			})
		}
	}

	return collab, closeAll, nil
}

func newRouter(cfg *config.Config, logger *slog.Logger, analytics portssvc.Analytics) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}
	rateLimiter := limiter.New(memory.NewStore(), rate)

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 || cfg.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")

	// Logging first so every later middleware has the request-scoped logger.
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig),
		middleware.RateLimit(rateLimiter),
		middleware.PosthogMiddleware(analytics),
	)
	return r, nil
}
