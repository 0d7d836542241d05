package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"roadmap-backend/infrastructure/config"
	"roadmap-backend/infrastructure/di"
	"roadmap-backend/interfaces/http/rest"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router := rest.NewRouter(routerDeps(container))
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	container.Metrics.Flush(shutdownCtx)

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}

func routerDeps(c *di.Container) rest.Dependencies {
	return rest.Dependencies{
		Config:         c.Config,
		Logger:         c.Logger,
		QueryBus:       c.QueryBus,
		CreateRoadmap:  c.CreateRoadmap,
		UpdateRoadmap:  c.UpdateRoadmap,
		DeleteRoadmap:  c.DeleteRoadmap,
		EditContent:    c.EditContent,
		PublishRoadmap: c.PublishRoadmap,
		ChangeProgress: c.ChangeProgress,
		AccessGrants:   c.AccessGrants,
		Star:           c.Star,
		RegisterUser:   c.RegisterUser,
		JWTValidator:   c.JWTValidator,
		RateLimiter:    c.RateLimiter,
	}
}
