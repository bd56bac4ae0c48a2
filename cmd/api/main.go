package main

import (
	"context"
	"fmt"
	"time"

	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/api"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/api/middleware"
	v1 "github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/api/v1"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/api/validator"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/config"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/metrics"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/publishers"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/repository"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/service"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/database"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/httpclient"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/mq"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const collectInterval = 15 * time.Second

func main() {
	fx.New(
		fx.Provide(
			LoadConfig,
			zap.NewProduction,
			NewConnectionDB,
			NewMetrics,
			NewCatalog,
			NewGateway,
			NewReconcileQueue,
			NewFiberApp,
			NewValidator,
			metrics.NewDatabaseMonitor,
			metrics.NewRuntimeSampler,
			NewCollector,

			repository.NewTransactionManager,
			repository.NewProfileRepository,
			repository.NewTransactionRepository,

			service.NewPaymentService,
			service.NewWebhookService,
			service.NewStatusService,
			service.NewAccountService,

			NewOpsHandler,
			v1.NewHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *api.Handler, v1Handler *v1.Handler, m *metrics.Metrics,
	collector *metrics.Collector, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler, v1Handler, m, api.RouteConfig{CORSOrigins: cfg.API.CORSOrigins}, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			collector.Start(collectInterval)

			go func() {
				if err := app.Listen(":" + cfg.API.Port); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
			}()

			logger.Info("api started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			collector.Stop()
			return app.ShutdownWithContext(ctx)
		},
	})
}

// LoadConfig refuses to start without the gateway secret and database DSN.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func NewConnectionDB(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()

	db, err := database.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Use(metrics.NewGormPlugin(m, logger)); err != nil {
		return nil, fmt.Errorf("instrument database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(db); err != nil {
			return nil, err
		}
		logger.Info("database migrated")
	}

	return db, nil
}

func NewCollector(logger *zap.Logger, runtime *metrics.RuntimeSampler, db *metrics.DatabaseMonitor) *metrics.Collector {
	return metrics.NewCollector(logger, runtime, db)
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewCatalog(cfg *config.Config, logger *zap.Logger) (*pricing.Catalog, error) {
	catalog, err := pricing.FromConfig(cfg.Packages)
	if err != nil {
		return nil, err
	}

	logger.Info("package catalog loaded",
		zap.String("version", catalog.Version()),
		zap.Int("packages", len(catalog.Packages())))

	return catalog, nil
}

func NewGateway(cfg *config.Config) omise.Gateway {
	client := httpclient.NewHTTPClient(cfg.Omise.Timeout, httpclient.WithUserAgent(omise.UserAgent))
	return omise.NewGateway(cfg.Omise, client)
}

// NewReconcileQueue publishes to RabbitMQ when reconcile is enabled and drops
// requests otherwise.
func NewReconcileQueue(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (service.ReconcileQueue, error) {
	if !cfg.Reconcile.Enable {
		return publishers.NewNoopReconcilePublisher(), nil
	}

	rabbit, err := mq.NewConnection(cfg.RabbitMQ, logger)
	if err != nil {
		return nil, err
	}

	if err := rabbit.DeclareTopology([]string{cfg.Reconcile.Queue}); err != nil {
		_ = rabbit.Close()
		return nil, err
	}

	publisher, err := rabbit.CreatePublisher()
	if err != nil {
		_ = rabbit.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = publisher.Close()
			return rabbit.Close()
		},
	})

	return publishers.NewReconcilePublisher(publisher, cfg, logger), nil
}

func NewFiberApp(logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "arc-market-api",
		ErrorHandler: middleware.ErrorHandler(logger),
	})
}

func NewValidator(m *metrics.Metrics) validator.IXValidator {
	return validator.NewXValidator(playground.New(), m)
}

func NewOpsHandler(logger *zap.Logger, monitor *metrics.DatabaseMonitor) *api.Handler {
	return api.NewHandler(logger, monitor)
}
