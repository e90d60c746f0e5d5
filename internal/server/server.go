// Package server owns process lifecycle: configuration, connections,
// handler assembly, listen, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hendryprasetyo/storefront/app/repositories"
	"github.com/hendryprasetyo/storefront/app/routes"
	"github.com/hendryprasetyo/storefront/config"
	"github.com/hendryprasetyo/storefront/internal/kernel"
	"github.com/hendryprasetyo/storefront/pkg/cache"
	"github.com/hendryprasetyo/storefront/pkg/database"
	"github.com/hendryprasetyo/storefront/pkg/logger"
	"github.com/hendryprasetyo/storefront/pkg/mail"
	"github.com/hendryprasetyo/storefront/pkg/router"
)

const shutdownTimeout = 15 * time.Second

// Start brings the whole service up and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.Disconnect(ctx)
	}()

	// Redis is an optimization, not a dependency: without it the
	// product store just reads through.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, product caching disabled", "error", err)
	}

	// Ship logs to Mongo as well when a collection is configured.
	if col := config.MongoLogCollection(); col != "" {
		mh := logger.NewMongoHandler(database.Collection(col))
		logger.Attach(mh)
		defer mh.Close()
	}

	handler := kernel.Build(func(r *router.Router) {
		routes.RegisterAPI(r, Stores(), mail.SMTPSender{})
	})

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Stores wires the Mongo-backed stores, with the product store read
// through Redis.
func Stores() routes.Stores {
	db := database.DB()
	return routes.Stores{
		Users:    repositories.NewMongoUserStore(db),
		Orders:   repositories.NewMongoOrderStore(db),
		Products: repositories.NewCachedProductStore(repositories.NewMongoProductStore(db)),
	}
}
