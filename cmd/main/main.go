package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medinv-service/internal/config"
	"medinv-service/internal/importer"
	"medinv-service/internal/parser"
	"medinv-service/internal/storage"
	serverhttp "medinv-service/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	st, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open storage")
	}
	defer st.Close()

	var opts []parser.Option
	if cfg.DisableDocumentFormats {
		opts = append(opts, parser.WithoutDocumentFormats())
	}
	p := parser.New(logger, opts...)
	imp := importer.New(p, st, logger)

	r := serverhttp.NewRouter(cfg, logger, imp, st)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
