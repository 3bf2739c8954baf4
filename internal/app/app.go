// Package app assembles the stores, services and HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/MrKrzychu46/Blog-Backend/internal/account"
	"github.com/MrKrzychu46/Blog-Backend/internal/api"
	"github.com/MrKrzychu46/Blog-Backend/internal/auth"
	"github.com/MrKrzychu46/Blog-Backend/internal/config"
	"github.com/MrKrzychu46/Blog-Backend/internal/database"
	"github.com/MrKrzychu46/Blog-Backend/internal/favorites"
	"github.com/MrKrzychu46/Blog-Backend/internal/mail"
	"github.com/MrKrzychu46/Blog-Backend/internal/media"
	"github.com/MrKrzychu46/Blog-Backend/internal/posts"
	"github.com/MrKrzychu46/Blog-Backend/internal/ratings"
	"github.com/MrKrzychu46/Blog-Backend/internal/users"
)

// Models lists every table, in migration order.
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&posts.Post{},
		&ratings.Rating{},
		&favorites.Favorite{},
	}
}

type App struct {
	Config *config.Config
	DB     *gorm.DB
	Router *gin.Engine

	redis *redis.Client
}

// New connects to the database and Redis (when configured) and wires the
// router. Close releases both.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	var (
		revoker auth.Revoker = auth.NoopRevoker{}
		rdb     *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb, err = auth.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			closeDB(db)
			return nil, err
		}
		revoker = auth.NewRedisRevoker(rdb)
		log.Printf("token revocation enabled redis=%s", cfg.RedisAddr)
	} else {
		log.Println("REDIS_ADDR not set, logout will not revoke tokens")
	}

	router, err := Build(cfg, db, revoker, mail.New(cfg.ResendAPIKey, cfg.MailFrom))
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		closeDB(db)
		return nil, err
	}
	return &App{Config: cfg, DB: db, Router: router, redis: rdb}, nil
}

// Build wires every component around an open database.
func Build(cfg *config.Config, db *gorm.DB, revoker auth.Revoker, mailer mail.Dispatcher) (*gin.Engine, error) {
	files, err := media.NewStore(cfg.UploadsDir, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	userStore := users.NewStore(db)
	postStore := posts.NewStore(db)
	ratingStore := ratings.NewStore(db)
	favoriteStore := favorites.NewStore(db)

	hasher := auth.NewBcryptHasher()
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)

	return api.NewRouter(api.Deps{
		Config:    cfg,
		Users:     users.NewService(userStore, hasher, issuer, mailer, files, cfg.BaseURL, cfg.VerificationTTL),
		UserStore: userStore,
		Posts:     postStore,
		Ratings:   ratings.NewAggregator(ratingStore, postStore),
		Favorites: favorites.NewIndex(favoriteStore, postStore),
		Accounts: account.NewManager(account.Stores{
			Users:     userStore,
			Posts:     postStore,
			Ratings:   ratingStore,
			Favorites: favoriteStore,
		}, hasher, files, cfg.PostDeletePolicy),
		Media:   files,
		Issuer:  issuer,
		Revoker: revoker,
	}), nil
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
