package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	config "gigflow.com/gigflow/internal/configs"
	httpapi "gigflow.com/gigflow/internal/http"
	"gigflow.com/gigflow/internal/notifications"
	repository "gigflow.com/gigflow/internal/repositories"
	"gigflow.com/gigflow/internal/services"
)

const sessionBuffer = 16

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the gigflow HTTP API and the hire notification dispatcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if err := config.Migrate(db); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)

		store := repository.NewStore(db)
		registry := notifications.NewRegistry(sessionBuffer, log)

		var sink notifications.Sink = registry
		if cfg.NotifyBackend == config.NotifyBackendRedis {
			redisClient, err := config.NewRedisClient(cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer redisClient.Close()

			sink = notifications.NewRedisSink(redisClient, cfg.RedisChannel)
			relay := notifications.NewRedisRelay(redisClient, cfg.RedisChannel, registry, log)
			g.Go(func() error {
				return relay.Run(gctx)
			})
		}

		dispatcher := notifications.NewDispatcher(sink, cfg.NotifyWorkers, cfg.NotifyQueueSize, log)
		svcs := services.NewServices(store, dispatcher, cfg.TxTimeout, log)

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		httpapi.Register(e, httpapi.NewHandler(svcs, registry, store, log), cfg.RateLimit)

		g.Go(func() error {
			log.Info("HTTP server listening",
				zap.String("addr", cfg.AppURL),
				zap.String("notify_backend", cfg.NotifyBackend),
			)
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()

			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
			)
			defer cancel()

			registry.Close()
			if err := e.Shutdown(shutdownCtx); err != nil {
				log.Warn("HTTP server shutdown failed", zap.Error(err))
			}
			dispatcher.Shutdown(shutdownCtx)
			return nil
		})

		err = g.Wait()
		log.Info("HTTP server and notification dispatcher shut down gracefully")
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
