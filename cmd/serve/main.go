package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/freeeve/openingstats/internal/httpapi"
	"github.com/freeeve/openingstats/internal/logx"
	"github.com/freeeve/openingstats/internal/rules"
	"github.com/freeeve/openingstats/internal/store"
)

func main() {
	var (
		indexPath = flag.String("index", "index.osx", "Index file to serve")
		addr      = flag.String("addr", ":8080", "Listen address")
	)
	flag.Parse()

	logger := logx.NewLogger()

	idx, err := store.Load(*indexPath)
	if err != nil {
		logger.Fatal().Err(err).Str("index", *indexPath).Msg("load index")
	}
	logger.Info().
		Str("index", *indexPath).
		Int("positions", idx.Len()).
		Msg("index loaded")

	srv := &http.Server{
		Addr:         *addr,
		Handler:      httpapi.NewRouter(logger, idx, rules.NormalizeFEN),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", *addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down...")
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutCancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}

	logger.Info().Msg("server stopped")
}
