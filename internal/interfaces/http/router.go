package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Appy-Anand/obeta-project/internal/application/analytics"
	"github.com/Appy-Anand/obeta-project/internal/application/auth"
	"github.com/Appy-Anand/obeta-project/internal/application/pipeline"
	"github.com/Appy-Anand/obeta-project/internal/application/report"
)

// RouterDeps carries the usecases the router wires up.
type RouterDeps struct {
	AuthUC      *auth.Usecase
	MartsUC     *analytics.MartsUsecase
	DashboardUC *analytics.DashboardUsecase
	PipelineUC  *pipeline.Usecase
	ReportUC    *report.Usecase
	JWTSecret   string
}

// Router registers the API routes. Everything except the token endpoint
// requires a valid bearer token; pipeline control and reports additionally
// require the operator role.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/token", authHandler.Token)

	// Protected routes (Bearer token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// KPI marts
	marts := protected.Group("/marts")
	martsHandler := NewMartsHandler(deps.MartsUC)
	marts.Get("/pick-volume", martsHandler.PickVolume)
	marts.Get("/orders-processed", martsHandler.OrdersProcessed)
	marts.Get("/pick-errors", martsHandler.PickErrors)
	marts.Get("/top-products", martsHandler.TopProducts)
	marts.Get("/avg-products-per-order", martsHandler.AvgProductsPerOrder)
	marts.Get("/order-count-by-type", martsHandler.OrderCountByType)
	marts.Get("/warehouse-utilization", martsHandler.WarehouseUtilization)
	marts.Get("/pick-throughput", martsHandler.PickThroughput)
	marts.Get("/binned-order-volume", martsHandler.BinnedOrderVolume)
	marts.Get("/zscore-distribution", martsHandler.ZScoreDistribution)
	marts.Get("/order-mix", martsHandler.OrderMix)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.Summary)

	// Pipeline control (operator only)
	pipelineGroup := protected.Group("/pipeline", RequireRole(auth.RoleOperator))
	pipelineHandler := NewPipelineHandler(deps.PipelineUC)
	pipelineGroup.Post("/runs", pipelineHandler.StartRun)
	pipelineGroup.Get("/runs", pipelineHandler.ListRuns)
	pipelineGroup.Get("/runs/:id", pipelineHandler.GetRun)

	// Reports (operator only)
	reportHandler := NewReportHandler(deps.ReportUC)
	protected.Get("/reports/weekly", RequireRole(auth.RoleOperator), reportHandler.Weekly)
}
