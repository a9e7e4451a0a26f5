// identityd is the development identity provider: it serves the remote
// contract the session client consumes (/auth/login, /auth/logout, /auth/me,
// /auth/register, /auth/users). Users live in MongoDB when MONGO_URI is set,
// otherwise in memory; a Redis-backed denylist revokes tokens on logout when
// REDIS_ADDR is set.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bestpractice/identity-system/internal/api"
	"github.com/bestpractice/identity-system/internal/core/ports"
	"github.com/bestpractice/identity-system/internal/core/service"
	"github.com/bestpractice/identity-system/internal/infrastructure/config"
	dbmemory "github.com/bestpractice/identity-system/internal/infrastructure/db/memory"
	dbmongo "github.com/bestpractice/identity-system/internal/infrastructure/db/mongo"
	dbredis "github.com/bestpractice/identity-system/internal/infrastructure/db/redis"
	"github.com/bestpractice/identity-system/pkg/logger"

	redisdriver "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg := config.LoadServer()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repo ports.UserRepository
		db   *mongodriver.Database
	)
	if cfg.Mongo.URI != "" {
		client, database, err := dbmongo.Connect(ctx, dbmongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer client.Disconnect(context.Background())
		db = database
		repo = dbmongo.NewUserRepository(database)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo user repository")
	} else {
		repo = dbmemory.NewUserRepository()
		log.Info().Msg("using in-memory user repository")
	}

	var (
		denylist ports.TokenDenylist
		rdb      *redisdriver.Client
	)
	if cfg.Redis.Addr != "" {
		client, err := dbredis.Connect(ctx, dbredis.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer client.Close()
		rdb = client
		denylist = dbredis.NewTokenDenylist(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("logout denylist enabled")
	}

	authService := service.NewAuthService(repo, cfg.JWTSecret, cfg.TokenTTL)
	e := api.NewRouter(api.Deps{
		Auth:      authService,
		Denylist:  denylist,
		JWTSecret: cfg.JWTSecret,
		DB:        db,
		RDB:       rdb,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("identityd listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
