package main

import (
	"context"
	"fmt"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/config"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/consumers"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/metrics"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
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

const consumerTag = "worker-reconcile"

func main() {
	fx.New(
		fx.Provide(
			LoadConfig,
			zap.NewProduction,
			NewConnectionDB,
			NewMQConnection,
			NewMQConsumer,
			NewMetrics,
			NewCatalog,
			NewGateway,

			repository.NewTransactionManager,
			repository.NewProfileRepository,
			repository.NewTransactionRepository,

			service.NewPaymentService,
			service.NewWebhookService,
			service.NewReconcileService,

			consumers.NewReconcileConsumer,
		),
		fx.Invoke(runReconcileConsumer),
	).Run()
}

func runReconcileConsumer(cfg *config.Config, reconcileConsumer consumers.ReconcileConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{cfg.Reconcile.Queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}
			logger.Info("queue declared", zap.String("queue", cfg.Reconcile.Queue))

			go func() {
				if err := reconcileConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("reconcile consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping reconcile consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

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
	db, err := database.NewConnection(context.Background(), cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Use(metrics.NewGormPlugin(m, logger)); err != nil {
		return nil, fmt.Errorf("instrument database: %w", err)
	}

	return db, nil
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer(consumerTag)
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewCatalog(cfg *config.Config) (*pricing.Catalog, error) {
	return pricing.FromConfig(cfg.Packages)
}

func NewGateway(cfg *config.Config) omise.Gateway {
	client := httpclient.NewHTTPClient(cfg.Omise.Timeout, httpclient.WithUserAgent(omise.UserAgent))
	return omise.NewGateway(cfg.Omise, client)
}
