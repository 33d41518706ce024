package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"startuphub/api"
	"startuphub/models"
	"startuphub/seed"
	"startuphub/services"
	"startuphub/tasks"
	"startuphub/workers"
)

const (
	userCacheTTL    = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

var seedFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := models.Connect(cfg)
		if err != nil {
			return err
		}
		if err := models.Migrate(db); err != nil {
			return err
		}

		var rdb *redis.Client
		if cfg.TasksEnabled() {
			rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, user cache degraded")
			}
			closeTasks := tasks.Connect(cfg.RedisAddr)
			defer closeTasks()
		} else {
			log.Warn().Msg("REDIS_ADDR not set, background tasks and user cache disabled")
		}

		tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
		users := services.NewUserCache(rdb, userCacheTTL)

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.NewRouter(cfg, tokens, users),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", cfg.HTTPAddr).Msg("api listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				log.Fatal().Err(err).Msg("app failed to start")
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run background task workers and the expiry scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if _, err := models.Connect(cfg); err != nil {
			return err
		}
		return workers.Run(ctx, cfg)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := models.Connect(cfg)
		if err != nil {
			return err
		}
		if err := models.Migrate(db); err != nil {
			return err
		}
		log.Info().Msg("migration complete")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert users and startup calls from a YAML fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := seed.ParseFile(seedFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Error().Str("file", seedFile).Msg("seed file not found")
			}
			return err
		}
		db, err := models.Connect(cfg)
		if err != nil {
			return err
		}
		if err := models.Migrate(db); err != nil {
			return err
		}
		_, err = seed.Apply(cmd.Context(), fixture)
		return err
	},
}
