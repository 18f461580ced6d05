package main

import (
	"context"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"docextract/internal/ai"
	"docextract/internal/config"
	handlers "docextract/internal/http/handler"
	"docextract/internal/http/middleware"
	"docextract/internal/ocr"
	"docextract/internal/otel"
	"docextract/internal/pdf"
	"docextract/internal/regions"
	"docextract/internal/scratch"
	"docextract/internal/service"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	store, err := scratch.NewDiskStore(cfg.ScratchDir)
	if err != nil {
		log.Fatalf("failed to initialize scratch storage: %v", err)
	}

	structurer, err := ai.NewStructurer(ctx, cfg.AI, log)
	if err != nil {
		log.Fatalf("failed to initialize language-model client: %v", err)
	}

	svc := service.NewExtractionService(
		store,
		pdf.NewGhostscriptRasterizer(cfg.PDF),
		ocr.NewTesseractEngine(cfg.OCR, log),
		regions.NewAdaptiveDetector(),
		structurer,
		log,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.BodyLimitBytes,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	app.Static("/static", "./static")

	handlers.RegisterRoutes(app, svc)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
