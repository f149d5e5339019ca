package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"scicomp-hub/internal/core/auth"
	"scicomp-hub/internal/core/cache"
	"scicomp-hub/internal/core/config"
	"scicomp-hub/internal/core/database"
	"scicomp-hub/internal/core/logger"
	"scicomp-hub/internal/core/server"
	"scicomp-hub/internal/events"
	"scicomp-hub/internal/repo"
	"scicomp-hub/internal/service"
	"scicomp-hub/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	var rdb *cache.Cache
	if cfg.Redis.Enabled {
		rdb = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	var pub *events.Publisher
	if cfg.AMQP.Enabled {
		pub = events.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, log)
		defer pub.Close()
	}

	users := repo.NewUserRepo(db)
	comps := repo.NewCompetitionRepo(db)

	deps := router.Deps{
		Log:     log,
		Guard:   service.NewGuard(jwter, users),
		Mod:     service.NewModerationService(comps, rdb, pub, log),
		Listing: service.NewListingService(comps),
		Users:   service.NewUserAdminService(users, comps),
	}

	r := router.NewAdminEngine(deps)

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	log.Info("admin api starting", zap.String("addr", addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
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
