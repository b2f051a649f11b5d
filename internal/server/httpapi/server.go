// Package httpapi exposes the session authority and the task service over
// HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/logging"
	"github.com/dmitrijs2005/taskpulse/internal/server/models"
	"github.com/dmitrijs2005/taskpulse/internal/server/services"
)

// shutdownTimeout bounds how long in-flight requests may finish after Run's
// context is cancelled.
const shutdownTimeout = 5 * time.Second

// Sessions is the part of services.SessionService the transport needs.
type Sessions interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	VerifyAccess(token string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID string) error
}

// Tasks is the part of services.TaskService the transport needs.
type Tasks interface {
	List(ctx context.Context, userID string) ([]*models.Task, error)
	Create(ctx context.Context, userID string, in services.TaskInput) (*models.Task, error)
	Update(ctx context.Context, userID, id string, patch services.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

type HTTPServer struct {
	address        string
	sessions       Sessions
	tasks          Tasks
	logger         logging.Logger
	requestTimeout time.Duration
	env            string
}

func NewHTTPServer(a string, l logging.Logger, ss Sessions, ts Tasks, requestTimeout time.Duration, env string) *HTTPServer {
	return &HTTPServer{
		address:        a,
		logger:         l.With("module", "http_server"),
		sessions:       ss,
		tasks:          ts,
		requestTimeout: requestTimeout,
		env:            env,
	}
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(context.Background(), "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
