// Command seed provisions the demo data set: nine products, nine users
// (user1@example.com/password1 ..) and a handful of random reviews.
// It drops existing rows first, so it is safe to rerun.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/takatama/bottle-store/internal/core/config"
	"github.com/takatama/bottle-store/internal/core/database"
	"github.com/takatama/bottle-store/internal/core/logger"
	"github.com/takatama/bottle-store/internal/domain"
	"github.com/takatama/bottle-store/internal/repo"
	"github.com/takatama/bottle-store/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Product{}, &domain.Review{}); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}
	for _, table := range []string{"reviews", "users", "products"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatal("wipe table failed", zap.String("table", table), zap.Error(err))
		}
	}

	ctx := context.Background()
	users := repo.NewUserRepo(db)
	products := repo.NewProductRepo(db)
	reviews := repo.NewReviewRepo(db)

	var productIDs, userIDs []int64
	for i := 1; i <= 9; i++ {
		p := &domain.Product{
			Name:        fmt.Sprintf("商品%d", i),
			Description: fmt.Sprintf("商品%dの説明", i),
			ImageURL:    "https://via.placeholder.com/150",
			PriceYen:    int64(rand.Intn(99)+1) * 100,
		}
		if err := products.Create(ctx, p); err != nil {
			log.Fatal("seed product failed", zap.Error(err))
		}
		productIDs = append(productIDs, p.ID)
	}
	log.Info("seeded products", zap.Int("count", len(productIDs)))

	for i := 1; i <= 9; i++ {
		u := &domain.User{
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: utils.HashPassword(fmt.Sprintf("password%d", i)),
			Nickname:     fmt.Sprintf("ユーザー%d", i),
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("seed user failed", zap.Error(err))
		}
		userIDs = append(userIDs, u.ID)
	}
	log.Info("seeded users", zap.Int("count", len(userIDs)))

	seeded := 0
	for i := 0; i < 9; i++ {
		rev := &domain.Review{
			ProductID: productIDs[rand.Intn(len(productIDs))],
			UserID:    userIDs[rand.Intn(len(userIDs))],
			Rate:      rand.Intn(5) + 1,
			Comment:   "...",
		}
		// random pairs may collide; the upsert keeps one review per pair
		if err := reviews.Upsert(ctx, rev); err != nil {
			log.Fatal("seed review failed", zap.Error(err))
		}
		seeded++
	}
	log.Info("seeded reviews", zap.Int("count", seeded))
	log.Info("seed done", zap.String("dsn", cfg.DB.DSN))
}
