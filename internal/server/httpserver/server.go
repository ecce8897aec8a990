// Package httpserver exposes the user and link services as a JSON API over
// HTTP, routed with chi.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/linkfeed/internal/logging"
	"github.com/dmitrijs2005/linkfeed/internal/server/auth"
	"github.com/dmitrijs2005/linkfeed/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type HTTPServer struct {
	address         string
	users           *services.UserService
	links           *services.LinkService
	resolver        *auth.Resolver
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ls *services.LinkService, resolver *auth.Resolver, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         a,
		logger:          l.With("module", "http_server"),
		users:           us,
		links:           ls,
		resolver:        resolver,
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler returns the routed API.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(s.authenticate)

	r.Get("/healthz", s.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", s.signup)
		r.Post("/login", s.login)
		r.Get("/me", s.me)
		r.Get("/feed", s.feed)

		r.Route("/links", func(r chi.Router) {
			r.Post("/", s.postLink)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getLink)
				r.Put("/", s.refreshLink)
				r.Delete("/", s.deleteLink)
				r.Post("/vote", s.vote)
				r.Get("/voters", s.voters)
			})
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down, giving in-flight
// requests up to the shutdown timeout to finish.
func (s *HTTPServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
