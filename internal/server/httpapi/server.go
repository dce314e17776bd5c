// Package httpapi exposes the habit services over HTTP/JSON using chi.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/logging"
	"github.com/dmitrijs2005/habitkeeper/internal/server/models"
	"github.com/dmitrijs2005/habitkeeper/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// UserService is the part of services.UserService the handlers need.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, login, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	Authenticate(accessToken string) (string, error)
}

// HabitService is the part of services.HabitService the handlers need.
type HabitService interface {
	List(ctx context.Context, userID, tag string) ([]models.Habit, error)
	Create(ctx context.Context, userID string, in services.HabitInput) (*models.Habit, error)
	Update(ctx context.Context, userID, id string, in services.HabitInput) (*models.Habit, error)
	Delete(ctx context.Context, userID, id string) error
	Complete(ctx context.Context, userID, id string, day time.Time) (*models.Completion, error)
	Progress(ctx context.Context, userID string) ([]models.Progress, error)
	Streak(ctx context.Context, userID, id string) (int, error)
	Tags(ctx context.Context, userID string) ([]string, error)
	Completions(ctx context.Context, userID string) ([]models.Completion, error)
}

type Server struct {
	address        string
	users          UserService
	habits         HabitService
	logger         logging.Logger
	allowedOrigins []string
}

func NewServer(address string, l logging.Logger, us UserService, hs HabitService, allowedOrigins []string) *Server {
	return &Server{
		address:        address,
		logger:         l.With("module", "http_server"),
		users:          us,
		habits:         hs,
		allowedOrigins: allowedOrigins,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done

	return nil
}
