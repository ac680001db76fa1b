package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ai-patch-suggester/internal/config"
	"ai-patch-suggester/internal/observability"
)

type Server struct {
	cfg    *config.Config
	logger *observability.Logger
	http   *http.Server
}

func NewServer(cfg *config.Config, logger *observability.Logger) *Server {

	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	s.http = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	return s
}

func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting server",
		"port", s.cfg.Port,
		"env", s.cfg.Env,
	)

	if err := s.http.ListenAndServe(); err != nil &&
		err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
