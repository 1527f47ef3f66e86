package workers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

type apiServer struct {
	server *http.Server
}

func NewAPIServer(addr string, router http.Handler) (*apiServer, error) {
	return &apiServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (a *apiServer) Name() string { return "api_server" }

func (a *apiServer) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", a.Name(), "addr", a.server.Addr)
	defer slog.Info("Worker stopped", "name", a.Name())

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}
