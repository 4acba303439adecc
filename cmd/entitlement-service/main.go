package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	driverhandlers "ride-entitlement/internal/driver/adapter/handlers"
	driverpsql "ride-entitlement/internal/driver/adapter/psql"
	driverusecase "ride-entitlement/internal/driver/app/usecase"
	rideapi "ride-entitlement/internal/ride/api"
	rideapp "ride-entitlement/internal/ride/app"
	riderepo "ride-entitlement/internal/ride/repo"
	"ride-entitlement/internal/shared/clock"
	"ride-entitlement/internal/shared/config"
	"ride-entitlement/internal/shared/db"
	"ride-entitlement/internal/shared/health"
	"ride-entitlement/internal/shared/jwt"
	"ride-entitlement/internal/shared/middleware"
	"ride-entitlement/internal/shared/mq"
	"ride-entitlement/internal/shared/util"
	subapi "ride-entitlement/internal/subscription/api"
	subapp "ride-entitlement/internal/subscription/app"
	subrepo "ride-entitlement/internal/subscription/repo"
)

func main() {
	log := util.New()

	log.Info("EntitlementService", "Starting service initialization...")

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatal("Config", err)
	}
	log.OK("Config", "Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.ConnectToDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Database", err)
	}
	defer database.Close()
	log.OK("Database", "Connected successfully")

	conn, ch, err := mq.ConnectToRMQ(&cfg.RabbitMQ)
	if err != nil {
		log.Fatal("RabbitMQ", err)
	}
	defer conn.Close()
	defer ch.Close()
	log.OK("RabbitMQ", "Connected successfully")

	pub := mq.NewPublisher(ch)
	clk := clock.System()
	tokens := jwt.NewManager(cfg.JWT.Secret)
	auth := middleware.NewAuth(tokens)

	offlineTimeout := time.Duration(cfg.Sweeps.OfflineTimeoutSec) * time.Second

	presenceRepo := driverpsql.NewRepo(database)
	presence := driverusecase.NewService(presenceRepo, log, clk, offlineTimeout)
	presenceHandler := driverhandlers.NewHandler(presence, log, tokens)

	ledgerRepo := subrepo.NewSubscriptionRepo(database)
	ledger := subapp.NewLedgerService(ledgerRepo, pub, presenceHandler.WS(), log, clk)
	ledgerHandler := subapi.NewHandler(ledger)

	rideRepository := riderepo.NewRideRepo(database)
	rides := rideapp.NewRideService(rideRepository, pub, log, clk)
	rideHandler := rideapi.NewHandler(rides)

	mux := http.NewServeMux()
	presenceHandler.Register(mux, auth)
	ledgerHandler.Register(mux, auth)
	rideHandler.Register(mux, auth)
	mux.HandleFunc("GET /health", health.Handler("entitlement-service", database, conn))

	presence.StartOfflineSweep(ctx, time.Duration(cfg.Sweeps.OfflineIntervalSec)*time.Second)
	go ledger.StartSweeps(ctx,
		time.Duration(cfg.Sweeps.ExpiryIntervalSec)*time.Second,
		time.Duration(cfg.Sweeps.MassSyncIntervalSec)*time.Second,
	)
	log.OK("Sweeps", "Background sweeps scheduled")

	server := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: middleware.RequestID(middleware.AccessLog(log, mux)),
	}

	go func() {
		log.OK("HTTP", "entitlement-service running on :"+cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("EntitlementService", "Shutting down entitlement-service...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP", err)
	} else {
		log.OK("HTTP", "Server stopped gracefully")
	}
	log.Info("EntitlementService", "Shutdown complete")
}
