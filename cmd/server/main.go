package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/feesms/fees-management-backend/internal/config"
	"github.com/feesms/fees-management-backend/internal/database"
	"github.com/feesms/fees-management-backend/internal/handler"
	"github.com/feesms/fees-management-backend/internal/queue"
	"github.com/feesms/fees-management-backend/internal/repository"
	"github.com/feesms/fees-management-backend/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("database: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; caching and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	admins := repository.NewAdminRepo(db)
	students := repository.NewStudentRepo(db)
	fees := repository.NewFeeRepo(db)
	stats := repository.NewDashboardRepo(db)

	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, admins),
		Students:  handler.NewStudentHandler(students, fees),
		Fees:      handler.NewFeeHandler(fees, cfg.AMQPURL),
		Dashboard: handler.NewDashboardHandler(stats),
	}, cfg.JWTSecret, rdb)

	// Payment events are appended to logs/payments.log by a background
	// consumer. Skipped entirely when no broker is configured.
	if cfg.AMQPURL != "" {
		go queue.StartReceiptConsumer(cfg.AMQPURL)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
