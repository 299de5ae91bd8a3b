package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frotaops/frota-backend-go/internal/config"
	appHTTP "github.com/frotaops/frota-backend-go/internal/handler/http"
	"github.com/frotaops/frota-backend-go/internal/pkg/cron"
	"github.com/frotaops/frota-backend-go/internal/pkg/database"
	"github.com/frotaops/frota-backend-go/internal/pkg/events"
	"github.com/frotaops/frota-backend-go/internal/pkg/jwt"
	"github.com/frotaops/frota-backend-go/internal/repository/postgresql"
	debitService "github.com/frotaops/frota-backend-go/internal/service/debit"
	driverService "github.com/frotaops/frota-backend-go/internal/service/driver"
	settlementService "github.com/frotaops/frota-backend-go/internal/service/settlement"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	driverRepo := postgresql.NewDriverRepository(db)
	tripRepo := postgresql.NewTripRepository(db)
	debitRepo := postgresql.NewDebitRepository(db)
	settlementRepo := postgresql.NewSettlementRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := events.NewHub()

	driverSvc := driverService.NewDriverService(driverRepo)
	debitSvc := debitService.NewDebitService(db, debitRepo, driverRepo, settlementRepo, hub)
	settlementSvc := settlementService.NewSettlementService(
		db,
		settlementRepo,
		driverRepo,
		tripRepo,
		debitRepo,
		debitSvc,
		hub,
	)

	settlementHandler := appHTTP.NewSettlementHandler(settlementSvc)
	debitHandler := appHTTP.NewDebitHandler(debitSvc)
	driverHandler := appHTTP.NewDriverHandler(driverSvc, debitSvc)

	router := appHTTP.NewRouter(jwtService, settlementHandler, debitHandler, driverHandler)

	// Audit trail of every domain event
	auditCh, stopAudit := hub.SubscribeAll()
	go func() {
		for event := range auditCh {
			slog.Info("Domain event",
				"type", event.Type,
				"driver_id", event.DriverID,
				"entity_id", event.EntityID,
				"occurred_at", event.OccurredAt,
			)
		}
	}()

	scheduler := cron.NewScheduler()
	cron.NewDebitJobs(debitSvc).Register(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	scheduler.Stop()
	stopAudit()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	slog.Info("Server stopped")
}
