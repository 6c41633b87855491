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

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/takatama/bottle-store/internal/core/config"
	"github.com/takatama/bottle-store/internal/core/database"
	"github.com/takatama/bottle-store/internal/core/logger"
	"github.com/takatama/bottle-store/internal/core/server"
	"github.com/takatama/bottle-store/internal/core/session"
	"github.com/takatama/bottle-store/internal/domain"
	"github.com/takatama/bottle-store/internal/repo"
	"github.com/takatama/bottle-store/internal/service"
	"github.com/takatama/bottle-store/internal/transport/http/handler"
	"github.com/takatama/bottle-store/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Product{}, &domain.Review{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	codec := &session.Codec{
		Secret: []byte(cfg.SecretKey),
		Issuer: cfg.Session.Issuer,
		TTL:    time.Duration(cfg.Session.TTLHours) * time.Hour,
	}

	userRepo := repo.NewUserRepo(db)
	productRepo := repo.NewProductRepo(db)
	reviewRepo := repo.NewReviewRepo(db)

	authSvc := service.NewAuthService(userRepo)
	catalogSvc := service.NewCatalogService(productRepo, reviewRepo)
	reviewSvc := service.NewReviewService(reviewRepo)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc, codec, log),
		Products: handler.NewProductHandler(catalogSvc, reviewSvc, log),
		Reviews:  handler.NewReviewHandler(reviewSvc, log),
	}
	r := router.New(log, codec, h, cfg.Web.Templates)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("store starting",
		zap.String("addr", addr),
		zap.String("open", baseURL+"/products"),
		zap.String("health", baseURL+"/health"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("store start FAILED", zap.Error(err))
		}
	}()
	log.Info("store started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("store stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
