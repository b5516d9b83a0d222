package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/Appy-Anand/obeta-project/docs"
	appanalytics "github.com/Appy-Anand/obeta-project/internal/application/analytics"
	"github.com/Appy-Anand/obeta-project/internal/application/auth"
	"github.com/Appy-Anand/obeta-project/internal/application/pipeline"
	"github.com/Appy-Anand/obeta-project/internal/application/report"
	"github.com/Appy-Anand/obeta-project/internal/infrastructure/csvsource"
	"github.com/Appy-Anand/obeta-project/internal/infrastructure/export"
	infrapdf "github.com/Appy-Anand/obeta-project/internal/infrastructure/pdf"
	"github.com/Appy-Anand/obeta-project/internal/infrastructure/postgres"
	httpRouter "github.com/Appy-Anand/obeta-project/internal/interfaces/http"
	"github.com/Appy-Anand/obeta-project/pkg/config"
	"github.com/Appy-Anand/obeta-project/pkg/logger"
)

// @title        Warehouse Pick Analytics API
// @version      1.0
// @description  ETL pipeline control and KPI marts over the order picking history.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	pipelineCfg, err := pipelineConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline configuration")
	}

	stagingRepo := postgres.NewStagingRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	runRepo := postgres.NewRunRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	source := csvsource.New(cfg.Pipeline.DataDir)
	exporter := export.NewWriter(cfg.Pipeline.DataDir)

	pipelineUC := pipeline.NewUsecase(
		source, stagingRepo, txRunner, analyticsRepo, exporter, runRepo,
		pipelineCfg, log.WithComponent("pipeline").Zerolog(),
	)
	martsUC := appanalytics.NewMartsUsecase(analyticsRepo, cfg.Pipeline.TopNProducts)
	dashboardUC := appanalytics.NewDashboardUsecase(analyticsRepo, cfg.Pipeline.TopNProducts)
	reportUC := report.NewUsecase(analyticsRepo, infrapdf.NewWeeklyReportGenerator(), cfg.Pipeline.TopNProducts)
	authUC := auth.NewUsecase(
		cfg.Auth.OperatorUser, cfg.Auth.OperatorPasswordHash,
		cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // mart queries and PDF rendering
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Warehouse Pick Analytics API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		MartsUC:     martsUC,
		DashboardUC: dashboardUC,
		PipelineUC:  pipelineUC,
		ReportUC:    reportUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}

// pipelineConfig resolves the date dimension bounds from config.
func pipelineConfig(cfg *config.Config) (pipeline.Config, error) {
	start, err := time.Parse("2006-01-02", cfg.Pipeline.DateDimStart)
	if err != nil {
		return pipeline.Config{}, err
	}
	end, err := time.Parse("2006-01-02", cfg.Pipeline.DateDimEnd)
	if err != nil {
		return pipeline.Config{}, err
	}
	return pipeline.Config{
		DateDimStart: start,
		DateDimEnd:   end,
		TopNProducts: cfg.Pipeline.TopNProducts,
	}, nil
}
