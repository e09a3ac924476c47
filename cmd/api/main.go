package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Mangarao/aarohi-tms/config"
	"github.com/Mangarao/aarohi-tms/internal/database"
	"github.com/Mangarao/aarohi-tms/internal/middleware"
	"github.com/Mangarao/aarohi-tms/internal/router"
	"github.com/Mangarao/aarohi-tms/internal/server"
	"github.com/Mangarao/aarohi-tms/internal/service"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}
	if err := database.SeedAdmin(db, cfg); err != nil {
		logrus.WithError(err).Fatal("failed to seed admin account")
	}

	// Rate limiting is optional; without redis the public endpoints
	// run unthrottled.
	var publicLimit *middleware.RateLimiter
	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			logrus.WithError(err).Warn("redis unavailable, rate limiting disabled")
		} else {
			publicLimit = middleware.NewPublicComplaintRateLimiter(redisClient)
		}
	}

	svcs := router.Services{
		Auth:              service.NewAuthService(db, cfg.JWTSecret),
		Users:             service.NewUserService(db),
		Complaints:        service.NewComplaintService(db),
		Expenses:          service.NewExpenseService(db),
		ComplaintExpenses: service.NewComplaintExpenseService(db),
	}

	engine := router.New(db, svcs, publicLimit)
	srv := server.New(cfg, engine)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logrus.WithError(err).Fatal("server error")
		}
	case sig := <-quit:
		logrus.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logrus.WithError(err).Error("forced shutdown")
		}
	}
	logrus.Info("server stopped")
}
