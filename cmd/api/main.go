package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/lapor/internal/config"
	"github.com/gestaozabele/lapor/internal/geo"
	internalhttp "github.com/gestaozabele/lapor/internal/http"
	"github.com/gestaozabele/lapor/internal/kv"
	"github.com/gestaozabele/lapor/internal/provision"
	"github.com/gestaozabele/lapor/internal/report"
	"github.com/gestaozabele/lapor/internal/service"
	"github.com/gestaozabele/lapor/internal/session"
	"github.com/gestaozabele/lapor/internal/sispaa"
	"github.com/gestaozabele/lapor/internal/taxonomy"
	"github.com/gestaozabele/lapor/internal/user"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	store := kv.NewRedisStore(redisClient)

	reportRepo := report.NewRepository(store)
	userRepo := user.NewRepository(store)
	sessionRepo := session.NewRepository(store)
	typeRepo := taxonomy.NewTypeRepository(store)
	sectorRepo := taxonomy.NewSectorRepository(store)

	locator, err := geo.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		return fmt.Errorf("geoip: %w", err)
	}
	defer locator.Close()

	sispaaClient := sispaa.NewClient(cfg.SISPAAAPIURL, cfg.SISPAAAPIKey, cfg.SISPAATimeout)
	outbox := sispaa.NewOutbox(store, reportRepo, sispaaClient, cfg.OutboxInterval, cfg.OutboxMaxAttempts, log.Logger)

	authService := service.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL)
	reportService := service.NewReportService(reportRepo, typeRepo, sectorRepo, locator, outbox, authService)
	userService := service.NewUserService(userRepo)

	provisioner := provision.New(authService, userRepo, typeRepo, sectorRepo, log.Logger)
	if err := provisioner.Initialize(ctx, cfg); err != nil {
		return err
	}

	outbox.Start(ctx)
	defer outbox.Stop()

	handler := internalhttp.NewRouter(cfg, authService, reportService, userService, typeRepo, sectorRepo)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
