package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ogrusev/bookmart/config"
	"github.com/ogrusev/bookmart/internal/auth"
	"github.com/ogrusev/bookmart/internal/claimcode"
	handler "github.com/ogrusev/bookmart/internal/handler/http"
	"github.com/ogrusev/bookmart/internal/mailer"
	"github.com/ogrusev/bookmart/internal/middleware"
	"github.com/ogrusev/bookmart/internal/models"
	"github.com/ogrusev/bookmart/internal/pricing"
	"github.com/ogrusev/bookmart/internal/realtime"
	"github.com/ogrusev/bookmart/internal/repository"
	"github.com/ogrusev/bookmart/internal/repository/postgres"
	"github.com/ogrusev/bookmart/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// newLogger creates logger with log level
func newLogger(level string) (*zap.Logger, error) {

	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	return loggerCfg.Build()
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	err = db.Migrate()
	if err != nil {
		logger.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(cfg.AuthTokenKey)
	if err != nil {
		logger.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	bulkPercent, err := decimal.NewFromString(cfg.BulkDiscountPercent)
	if err != nil {
		logger.Fatal("Error parsing bulk discount percent", zap.Error(err))
	}
	rules := pricing.Rules{
		BulkThreshold: cfg.BulkDiscountThreshold,
		BulkPercent:   bulkPercent,
	}

	// connection registry and broadcaster
	registry := realtime.NewRegistry()
	broadcaster := realtime.NewBroadcaster(registry, logger)

	// external mail collaborator
	mailClient := mailer.New(cfg.MailerAddr)

	// dependency injection
	// order fulfillment
	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	orderService := service.NewOrderService(orderRepo, cartRepo, discountRepo,
		claimcode.New(), rules, broadcaster, mailClient, logger)
	orderHandler := handler.NewOrderHandler(orderService)
	staffHandler := handler.NewStaffHandler(orderService)

	// announcements
	announcementRepo := repository.NewAnnouncementRepository(db)
	announcementService := service.NewAnnouncementService(announcementRepo, broadcaster, logger)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)

	// socket upgrade
	wsHandler := handler.NewWSHandler(registry, logger)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger))

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))

		group.Post("/api/user/orders", orderHandler.Checkout())
		group.Get("/api/user/orders", orderHandler.ListUserOrders())
		group.Get("/api/ws", wsHandler.Serve())
		group.Get("/api/announcements", announcementHandler.ListAnnouncements())

		// staff-only routes
		group.Group(func(staff chi.Router) {
			staff.Use(handler.RequireRole(models.RoleStaff))

			staff.Get("/api/staff/orders", staffHandler.ListOrders())
			staff.Get("/api/staff/orders/{code}", staffHandler.VerifyClaimCode())
			staff.Post("/api/staff/orders/{code}/confirm", staffHandler.ConfirmOrder())
			staff.Post("/api/staff/orders/{code}/ready", staffHandler.MarkOrderReady())
			staff.Post("/api/staff/orders/{code}/complete", staffHandler.CompleteOrder())
			staff.Post("/api/staff/orders/{code}/cancel", staffHandler.CancelOrder())

			staff.Post("/api/staff/announcements", announcementHandler.CreateAnnouncement())
			staff.Put("/api/staff/announcements/{id}", announcementHandler.UpdateAnnouncement())
			staff.Delete("/api/staff/announcements/{id}", announcementHandler.DeleteAnnouncement())
		})
	})

	logger.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Fatal("Error starting server", zap.Error(err))
	}
}
