package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Config содержит настройки HTTP сервера
type Config struct {
	Addr            string
	Version         string
	ShutdownTimeout time.Duration
}

// Server — HTTP сервер API с graceful shutdown
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        Config
}

// New создает сервер поверх собранного роутера
func New(cfg Config, logger *slog.Logger, handler http.Handler) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
		cfg:    cfg,
	}
}

// Run запускает сервер и блокируется до отмены ctx.
// После отмены выполняется graceful shutdown с таймаутом из конфигурации.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr, "version", s.cfg.Version)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown started")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			// Не дождались: закрываем принудительно
			s.logger.Error("graceful shutdown failed", "error", err)
			if closeErr := s.httpServer.Close(); closeErr != nil {
				return fmt.Errorf("failed to force close server: %w", closeErr)
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		s.logger.Info("shutdown complete")
		return nil
	}
}
