package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"imager/internal/adapters/handler"
	"imager/internal/adapters/worker"
	"imager/internal/core/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("address", "", "listen address")
	bindFlag("server.address", serveCmd.Flags().Lookup("address"))
}

func runServe(ctx context.Context) error {
	log.Info().Msg("starting imager...")

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, err := newComponents()
	if err != nil {
		return err
	}

	pool := worker.NewPool(viper.GetInt("worker.count"), viper.GetInt("worker.queue_size"), nil)

	transformer := service.NewTransformService(c.storage, c.cropper, c.resizer, pool)
	e := handler.NewServer(handler.NewImages(transformer, viper.GetInt64("upload.max_size")))

	address := viper.GetString("server.address")
	timeout := viper.GetDuration("server.shutdown_timeout")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("address", address).Str("storage", c.storage.Root()).Msg("server listening")
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}

		if err := pool.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("pending generations abandoned")
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("server exited properly")

	return nil
}
