package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/client/api"
	"github.com/dmitrijs2005/taskpulse/internal/client/config"
	"github.com/dmitrijs2005/taskpulse/internal/client/models"
	"github.com/dmitrijs2005/taskpulse/internal/client/services"
)

// taskAPI is the part of api.Client the CLI uses.
type taskAPI interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Refresh(ctx context.Context, s *models.Session) error
	Logout(ctx context.Context, s *models.Session) error
	ListTasks(ctx context.Context, s *models.Session) ([]models.Task, error)
	CreateTask(ctx context.Context, s *models.Session, in models.NewTask) (*models.Task, error)
	UpdateTask(ctx context.Context, s *models.Session, id string, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, s *models.Session, id string) error
}

// localState is the on-disk state of the CLI, see services.LocalStore.
type localState interface {
	SaveSession(ctx context.Context, email string, s *models.Session) error
	LoadSession(ctx context.Context) (string, *models.Session, error)
	Clear(ctx context.Context) error
	SaveTasks(ctx context.Context, items []models.Task, at time.Time) error
	CachedTasks(ctx context.Context) ([]models.Task, time.Time, error)
	Close() error
}

type App struct {
	config   *config.Config
	api      taskAPI
	local    localState
	session  *models.Session
	saved    models.Session
	userName string
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.NewClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	a := &App{config: c, api: client, reader: bufio.NewReader(os.Stdin), out: os.Stdout, now: time.Now}

	if c.LocalDBPath != "" {
		store, err := services.OpenLocalStore(context.Background(), c.LocalDBPath)
		if err != nil {
			return nil, fmt.Errorf("error opening local database: %w", err)
		}
		a.local = store
	}
	return a, nil
}

// Run restores a saved session, then blocks in the REPL until the user
// exits, stdin closes or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	printlnFn("Welcome to TaskPulse CLI (type 'help' for commands)")
	a.restoreSession(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	if a.local != nil {
		_ = a.local.Close()
	}
}

func (a *App) restoreSession(ctx context.Context) {
	if a.local == nil {
		return
	}
	email, s, err := a.local.LoadSession(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Warning: could not read saved session:", err)
		return
	}
	if s == nil {
		return
	}
	a.session, a.saved, a.userName = s, *s, email
	fmt.Fprintln(a.out, "Restored session for", email)
}

// persist saves the session when its tokens changed since the last save.
// The API client refreshes tokens in place, so this runs after every call.
func (a *App) persist(ctx context.Context) {
	if a.local == nil || a.session == nil || *a.session == a.saved {
		return
	}
	if err := a.local.SaveSession(ctx, a.userName, a.session); err != nil {
		fmt.Fprintln(a.out, "Warning: could not save session:", err)
		return
	}
	a.saved = *a.session
}

// forget drops the session locally and wipes the on-disk state.
func (a *App) forget(ctx context.Context) {
	a.session = nil
	a.saved = models.Session{}
	a.userName = ""
	if a.local != nil {
		if err := a.local.Clear(ctx); err != nil {
			fmt.Fprintln(a.out, "Warning: could not clear local data:", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session != nil && a.session.AccessToken != ""
}

func (a *App) getStatus() string {
	if a.isLoggedIn() && a.userName != "" {
		return "(" + a.userName + ")"
	}
	return ""
}
