package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	httpLayer "relocation-calculator/http"
	"relocation-calculator/repository"
	"relocation-calculator/service"
)

func newServeCommand(o *rootOptions) *cobra.Command {
	var addr, redisAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator form and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				o.cfg.Addr = addr
			}
			if cmd.Flags().Changed("redis-addr") {
				o.cfg.RedisAddr = redisAddr
			}
			return serve(cmd.Context(), o)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for sessions and results (in-memory when empty)")
	return cmd
}

func newCache(ctx context.Context, redisAddr string) (repository.CacheRepository, func(), error) {
	if redisAddr == "" {
		logrus.Info("Using in-memory cache")
		cache := repository.NewMemoryCache()
		return cache, cache.Stop, nil
	}

	cache := repository.NewRedisCache(redisAddr)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		cache.Close()
		return nil, nil, err
	}
	logrus.WithField("addr", redisAddr).Info("Using redis cache")
	return cache, func() { cache.Close() }, nil
}

func serve(ctx context.Context, o *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := o.cfg

	cache, closeCache, err := newCache(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer closeCache()

	relocationService := service.NewRelocationService(cache, o.policy)
	formStore := service.NewFormStore(cache, cfg.SessionTTL)

	relocationHandler := httpLayer.NewRelocationHandler(relocationService, o.variant)
	formHandler := httpLayer.NewFormHandler(relocationService, formStore, repository.NewSystemClipboard(), o.variant)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit, time.Minute)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      httpLayer.NewRouter(relocationHandler, formHandler, rateLimiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logrus.WithField("addr", cfg.Addr).Info("Relocation calculator listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		logrus.Info("Shutting down server...")
	case <-ctx.Done():
		logrus.Info("Context cancelled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Error during server shutdown")
	}

	logrus.Info("Server exited")
	return nil
}
