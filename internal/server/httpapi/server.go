package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/feedbackhub/feedbackhub/internal/logging"
	"github.com/feedbackhub/feedbackhub/internal/server/config"
)

// HTTPServer runs the public HTTP endpoint and shuts down gracefully when
// the context is cancelled.
type HTTPServer struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, api *API) *HTTPServer {
	mux := NewRouter(api, l, cfg)
	handler := CORS(strings.Split(cfg.CORSOrigins, ","), mux)

	return &HTTPServer{
		address: cfg.EndpointAddrHTTP,
		handler: handler,
		logger:  l.With("module", "http_server"),
	}
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.handler,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
