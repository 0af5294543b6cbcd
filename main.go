package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/beartracks/config"
	"github.com/yeremiapane/beartracks/hub"
	"github.com/yeremiapane/beartracks/router"
	"github.com/yeremiapane/beartracks/services"
	"github.com/yeremiapane/beartracks/store"
	"github.com/yeremiapane/beartracks/utils"
)

const blacklistSweepInterval = 10 * time.Minute

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.ConfigureTokens(cfg.JWTSecret, cfg.TokenTTL)

	a, err := newApp(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to start: %v", err)
	}
	a.monitor.Start()
	defer a.monitor.Stop()

	stopSweep := make(chan struct{})
	defer close(stopSweep)
	go sweepBlacklist(stopSweep)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server forced to shutdown: %v", err)
	}

	utils.InfoLogger.Println("Server exited gracefully")
}

type app struct {
	services *services.Services
	hub      *hub.Hub
	monitor  *services.NotificationMonitor
	handler  http.Handler
}

// newApp opens the store and wires services, hub and router. The monitor is
// returned unstarted.
func newApp(cfg config.Config) (*app, error) {
	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.NewGormStore(db)
	if err != nil {
		return nil, err
	}

	h := hub.New()
	svc := services.New(st, h)

	if cfg.AdminEmail != "" {
		_, created, err := svc.Users.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin account: %w", err)
		}
		if created {
			utils.InfoLogger.Printf("Admin account created for %s", cfg.AdminEmail)
		}
	}

	monitor := services.NewNotificationMonitor(svc.Notifications, h)
	monitor.Interval = cfg.PollInterval

	return &app{
		services: svc,
		hub:      h,
		monitor:  monitor,
		handler:  router.SetupRouter(svc, h, cfg),
	}, nil
}

func sweepBlacklist(stop <-chan struct{}) {
	ticker := time.NewTicker(blacklistSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := utils.CleanupBlacklist(); n > 0 {
				utils.InfoLogger.Debugf("Removed %d expired tokens from blacklist", n)
			}
		case <-stop:
			return
		}
	}
}
