// Package httpapi exposes the user service over HTTP with fiber.
package httpapi

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/kynetix/internal/logging"
	"github.com/dmitrijs2005/kynetix/internal/server/models"
	"github.com/dmitrijs2005/kynetix/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

// UserService is the part of services.UserService the handlers need.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Profile, error)
	Login(ctx context.Context, in services.LoginInput) (*models.Profile, string, error)
	Authenticate(ctx context.Context, token string) (int64, error)
	Profile(ctx context.Context, userID int64) (*models.Profile, error)
}

type Options struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	opts   Options
	app    *fiber.App
	users  UserService
	logger logging.Logger
}

func NewServer(opts Options, l logging.Logger, us UserService) *Server {
	s := &Server{
		opts:   opts,
		users:  us,
		logger: l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "kynetix",
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})
	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Use(s.accessLog)

	s.app.Get("/", s.welcome)
	s.app.Get("/health", s.health)

	auth := s.app.Group("/auth")
	auth.Post("/register", s.register)
	auth.Post("/login", s.login)

	s.app.Get("/users/me", s.requireAuth, s.me)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(s.opts.ShutdownTimeout); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	return s.app.Listener(listen)
}
