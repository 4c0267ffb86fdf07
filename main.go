package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Govind-619/ZapShift/cache"
	"github.com/Govind-619/ZapShift/config"
	"github.com/Govind-619/ZapShift/controllers"
	"github.com/Govind-619/ZapShift/db"
	"github.com/Govind-619/ZapShift/gateway"
	"github.com/Govind-619/ZapShift/routes"
	"github.com/Govind-619/ZapShift/utils"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogDir); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer utils.CloseLogger()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	client, err := config.ConnectDatabase(ctx, cfg)
	if err != nil {
		utils.LogError("Failed to connect to MongoDB: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := config.DisconnectDatabase(client); err != nil {
			utils.LogError("Failed to disconnect from MongoDB: %v", err)
		}
	}()

	store := db.NewStore(client, db.Options{
		DBName:             cfg.DBName,
		ParcelsCollection:  cfg.ParcelsCollection,
		PaymentsCollection: cfg.PaymentsCollection,
		Transactions:       cfg.MongoTransactions,
		Timeout:            cfg.DBTimeout,
	})
	if err := store.EnsureIndexes(ctx); err != nil {
		utils.LogError("Failed to create indexes: %v", err)
		os.Exit(1)
	}

	gw, err := gateway.New(cfg)
	if err != nil {
		utils.LogError("Failed to initialize payment gateway: %v", err)
		os.Exit(1)
	}

	var locker cache.Locker = cache.NewMemoryLocker()
	if cfg.RedisAddr != "" {
		locker = cache.NewRedisLocker(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB, cfg.LockTTL)
		if err := locker.Ping(ctx); err != nil {
			utils.LogError("Redis at %s is not reachable: %v", cfg.RedisAddr, err)
			os.Exit(1)
		}
		utils.LogInfo("Using Redis confirmation lock at %s", cfg.RedisAddr)
	}
	defer locker.Close()

	var mailer utils.Mailer = utils.NoopMailer{}
	if cfg.MailEnabled() {
		mailer = utils.NewSMTPMailer(utils.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	handler := controllers.NewHandler(controllers.Deps{
		Parcels:          store.Parcels,
		Payments:         store.Payments,
		Ledger:           store,
		Gateway:          gw,
		Locker:           locker,
		Mailer:           mailer,
		Currency:         cfg.Currency,
		ClientSideDomain: cfg.ClientSideDomain,
	})

	// Set up router
	router := routes.SetupRouter(handler)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting on port %s (provider %s)", cfg.Port, gw.Name())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError("Error starting server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Server shutdown failed: %v", err)
	}
	if err := handler.Wait(shutdownCtx); err != nil {
		utils.LogError("Gave up waiting for confirmation emails: %v", err)
	}
}
