package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minaorangina/cadena/config"
	"github.com/minaorangina/cadena/server"
	"github.com/minaorangina/cadena/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err.Error())
	}

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	opts := server.Options{
		Store:   store.NewInMemoryRoomStore(),
		Rules:   cfg.GameRules(),
		AIDelay: cfg.AIDelay,
		Origins: cfg.Origins(),
		Logger:  logger,
	}

	if cfg.DBPath != "" {
		archive, err := store.OpenResultStore(cfg.DBPath)
		if err != nil {
			logger.Fatal("could not open results archive", zap.String("path", cfg.DBPath), zap.Error(err))
		}
		defer archive.Close()
		opts.Archive = archive
	}

	s := server.NewServer(opts)
	s.Addr = cfg.Addr()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", s.Addr), zap.String("rules", cfg.Rules))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
