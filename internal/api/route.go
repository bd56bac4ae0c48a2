package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/api/middleware"
	v1 "github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/api/v1"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const prefixV1 = "/v1"

const corsHeaders = "authorization, x-client-info, apikey, content-type"

type RouteConfig struct {
	CORSOrigins string
	Gatherer    prometheus.Gatherer
}

func SetupRoutes(app *fiber.App, handler *Handler, v1Handler *v1.Handler, m *metrics.Metrics,
	cfg RouteConfig, logger *zap.Logger) {
	app.Use(middleware.TrackID())
	app.Use(metrics.HTTPMetricsMiddleware(m, logger, "/metrics"))

	app.Get("/ping", handler.Pong)
	app.Get("/health", handler.Health)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	origins := "*"
	if cfg.CORSOrigins != "" {
		origins = cfg.CORSOrigins
	}

	api := app.Group(prefixV1)
	api.Get("/packages", v1Handler.Packages)
	api.Get("/users/:userId/balance", v1Handler.Balance)
	api.Get("/users/:userId/transactions", v1Handler.History)

	topup := api.Group("/topup", cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "POST,OPTIONS",
		AllowHeaders: corsHeaders,
	}))
	topup.Post("/charges", v1Handler.CreateCharge)
	topup.Post("/charges/check", v1Handler.CheckCharge)
	topup.Post("/webhook", v1Handler.Webhook)
}
