// @title                      Ponto Inteligente API
// @version                    1.0
// @description                Time tracking: login, time entries, employees and companies.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
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

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/kazale/ponto-inteligente/internal/api"
	"github.com/kazale/ponto-inteligente/internal/api/handler"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
	"github.com/kazale/ponto-inteligente/internal/core/service"
	"github.com/kazale/ponto-inteligente/internal/core/token"
	"github.com/kazale/ponto-inteligente/internal/infrastructure/cache"
	"github.com/kazale/ponto-inteligente/internal/infrastructure/config"
	"github.com/kazale/ponto-inteligente/internal/infrastructure/db/breaker"
	mongostore "github.com/kazale/ponto-inteligente/internal/infrastructure/db/mongo"
	redisstore "github.com/kazale/ponto-inteligente/internal/infrastructure/db/redis"
	"github.com/kazale/ponto-inteligente/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "ponto-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Persistence ---
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}()
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	employees := mongostore.NewEmployeeRepository(db)
	entries := breaker.NewEntryRepository(mongostore.NewEntryRepository(db), breaker.Settings{
		MinRequests:  cfg.Breaker.MinRequests,
		FailureRatio: cfg.Breaker.FailureRatio,
		Interval:     cfg.Breaker.Interval,
		OpenTimeout:  cfg.Breaker.OpenTimeout,
		HalfOpenMax:  cfg.Breaker.HalfOpenMax,
	}, log)

	checks := map[string]handler.Check{
		"mongo": func(ctx context.Context) error { return client.Ping(ctx, nil) },
		"entries_breaker": func(context.Context) error {
			if entries.State() == gobreaker.StateOpen {
				return errors.New("circuit open")
			}
			return nil
		},
	}

	// --- Entry cache ---
	var entryCache ports.EntryCache
	switch cfg.Cache.Backend {
	case "redis":
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			ClientName: cfg.Redis.ClientName,
			PoolSize:   cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		entryCache = redisstore.NewEntryCache(rdb, cfg.Cache.TTL, cfg.Cache.TombstoneTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis entry cache enabled")
	default:
		lru, err := cache.NewLRU(cfg.Cache.Size)
		if err != nil {
			return err
		}
		entryCache = lru
	}

	// --- Tokens ---
	secret, err := cfg.Auth.Secret()
	if err != nil {
		return err
	}
	keys, err := token.NewKeyRing(secret, cfg.Auth.PreviousSecrets...)
	if err != nil {
		return err
	}
	if cfg.Auth.SecretFile != "" {
		go rotateOnHangup(ctx, cfg.Auth, keys, log)
	}
	codec := token.NewCodec(keys, token.WithLeeway(cfg.Auth.Leeway))

	// --- Services ---
	authSvc := service.NewAuthService(employees, codec, service.AuthOptions{
		TokenTTL:    cfg.Auth.TokenTTL,
		RenewWindow: cfg.Auth.RenewWindow,
		DocsEmail:   cfg.Admin.Email,
	}, log)
	store := service.NewEntryStore(entries, entryCache, log)
	entrySvc := service.NewEntryService(store, employees, cfg.PageSize, nil, log)

	if cfg.Admin.Password != "" {
		if _, err := service.SeedAdmin(ctx, employees, cfg.Admin.Email, cfg.Admin.Password, log); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Deps{
		Auth:          authSvc,
		Entries:       entrySvc,
		Employees:     service.NewEmployeeService(employees, log),
		Companies:     service.NewCompanyService(mongostore.NewCompanyRepository(db)),
		Checks:        checks,
		Docs:          cfg.IsDevelopment(),
		DocsAutoLogin: cfg.DocsAutoLogin(),
		Log:           log,
	})

	// --- Serve until the context is cancelled ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// rotateOnHangup re-reads the secret file on SIGHUP and makes it the signing
// key. Tokens signed with the previous key keep validating.
func rotateOnHangup(ctx context.Context, auth config.AuthConfig, keys *token.KeyRing, log zerolog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			secret, err := auth.Secret()
			if err == nil {
				err = keys.Rotate(secret)
			}
			if err != nil {
				log.Error().Err(err).Msg("signing key rotation failed")
				continue
			}
			log.Info().Msg("signing key rotated")
		}
	}
}
