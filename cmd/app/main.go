package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"referral_rewards/internal/config"
	"referral_rewards/internal/db"
	httpServer "referral_rewards/internal/http"
	"referral_rewards/internal/http/middleware"
	"referral_rewards/internal/logger"
	"referral_rewards/internal/repository"
	"referral_rewards/internal/service"
	"referral_rewards/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	gin.SetMode(gin.ReleaseMode)

	dbPool := db.Connect(cfg.DatabaseURL, cfg.DBMaxConns)
	defer dbPool.Close()

	redisClient := middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
	}

	hub := ws.NewHub()
	svc := service.NewReferralService(repository.NewStore(dbPool), service.Options{
		MaxDepth:     cfg.MaxReferralDepth,
		LinkTemplate: cfg.ReferralLinkTemplate,
	})
	svc.SetNotifier(hub)

	r := httpServer.NewRouter(httpServer.Deps{
		Service:       svc,
		DB:            dbPool,
		Hub:           hub,
		Redis:         redisClient,
		Version:       cfg.AppVersion,
		AllowedOrigin: cfg.AllowedOrigin,
		RateLimit:     cfg.APIRateLimit,
		RateWindow:    cfg.APIRateWindow,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.CloseAll()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
