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

	"github.com/sirupsen/logrus"

	"farelink_admin/internal/audit"
	"farelink_admin/internal/config"
	"farelink_admin/internal/drafts"
	"farelink_admin/internal/farelink"
	"farelink_admin/internal/logger"
	"farelink_admin/internal/middleware"
	"farelink_admin/internal/routes"
)

func main() {
	cfg := config.Load()

	// Initialize structured logging to file
	logger.Setup(cfg.LogFile, cfg.LogLevel)

	var auditLog audit.Logger = audit.Nop{}
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("audit database: %v", err)
	}
	if db != nil {
		auditLog = audit.NewGormLogger(db)
	} else {
		log.Println("DB_HOST not set – route writes will not be audited")
	}

	var store drafts.Store = drafts.NewMemoryStore(cfg.DraftTTL)
	if rdb := config.ConnectRedis(cfg); rdb != nil {
		defer rdb.Close()
		store = drafts.NewRedisStore(rdb, cfg.DraftTTL)
	}

	r := routes.SetupRouter(routes.Deps{
		JWTSecret: []byte(cfg.JWTSecret),
		API:       farelink.NewClient(cfg.APIBaseURL, cfg.APITimeout),
		Drafts:    store,
		Audit:     auditLog,
	})

	srv := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: middleware.EnableCORS(cfg.CORSOrigins, r),
	}

	go func() {
		log.Printf("🚀 Server running at %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
}
