package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/posadmin/reports-gateway/internal/backend"
	"github.com/posadmin/reports-gateway/internal/config"
	"github.com/posadmin/reports-gateway/internal/handler"
	"github.com/posadmin/reports-gateway/internal/middleware"
	"github.com/posadmin/reports-gateway/internal/service"
	"github.com/posadmin/reports-gateway/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config (reads .env if present)
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	// 2. Setup Logger
	zlog, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to init logger: ", err)
	}
	defer zlog.Sync()
	sugar := zlog.Sugar()

	// 3. Setup POS Backend Client
	posClient := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, sugar)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(sugar)
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	reportService := service.NewReportService(posClient, sugar)
	settingsService := service.NewSettingsService(posClient, sugar)

	reportHandler := handler.NewReportHandler(reportService)
	exportHandler := handler.NewExportHandler(reportService)
	txHandler := handler.NewTransactionHandler(reportService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	adminHandler := handler.NewAdminHandler(posClient)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Reports Gateway v1.0",
	})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// 7. Routes
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth())

	// Report Routes
	protected.Get("/reports/sales", reportHandler.GetSalesReport)
	protected.Get("/reports/profitability", reportHandler.GetProfitabilityReport)
	protected.Get("/reports/inventory", reportHandler.GetInventoryReport)

	// CSV Export Routes
	protected.Get("/reports/sales/export", exportHandler.ExportSales)
	protected.Get("/reports/profitability/export", exportHandler.ExportProfitability)
	protected.Get("/reports/inventory/export", exportHandler.ExportInventory)
	protected.Get("/transactions/export", exportHandler.ExportTransactions)

	// Transaction Routes
	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Get("/transactions/:id", txHandler.GetTransaction)

	// Settings Routes
	protected.Get("/settings", settingsHandler.GetSettings)
	protected.Put("/settings", func(c *fiber.Ctx) error {
		err := settingsHandler.UpdateSettings(c)
		if err == nil && c.Response().StatusCode() < 300 {
			wsHub.NotifyRefresh("settings")
		}
		return err
	})

	// Admin Routes (role enforced here, final say stays with the backend)
	admin := protected.Group("", middleware.RequireRole("ADMIN"))
	admin.Get("/users", adminHandler.GetUsers)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Get("/audit-logs", adminHandler.GetAuditLogs)
	admin.Get("/reports/backup", adminHandler.GetBackup)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(ws.Serve(wsHub, cfg.SearchDebounce)))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			sugar.Fatalw("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Infow("shutting down server")
	if err := app.Shutdown(); err != nil {
		sugar.Fatalw("server forced to shutdown", "error", err)
	}
	sugar.Infow("server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
