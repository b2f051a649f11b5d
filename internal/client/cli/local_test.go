package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/client/api"
	"github.com/dmitrijs2005/taskpulse/internal/client/models"
	"github.com/dmitrijs2005/taskpulse/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLocal(t *testing.T, path string) *services.LocalStore {
	t.Helper()
	s, err := services.OpenLocalStore(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	silence(t)
	origGP := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte("pw-123"), nil }
	t.Cleanup(func() { getPassword = origGP })

	ctx := context.Background()
	url := newBackend(t)
	client, err := api.NewClient(url, 2*time.Second)
	require.NoError(t, err)
	dbPath := filepath.Join(t.TempDir(), "cli.db")

	var out1 bytes.Buffer
	first := &App{api: client, local: openLocal(t, dbPath), out: &out1, now: time.Now,
		reader: bufio.NewReader(strings.NewReader("register\ne@example.org\nlogin\ne@example.org\nexit\n"))}
	first.Run(ctx)
	require.Contains(t, out1.String(), "Login successful")

	var out2 bytes.Buffer
	second := &App{api: client, local: openLocal(t, dbPath), out: &out2, now: time.Now,
		reader: bufio.NewReader(strings.NewReader("tasks\nlogout\nexit\n"))}
	second.Run(ctx)

	assert.Contains(t, out2.String(), "Restored session for e@example.org")
	assert.Contains(t, out2.String(), "No tasks")
	assert.NotContains(t, out2.String(), "Please log in first")
	assert.Contains(t, out2.String(), "Logged out")

	_, s, err := openLocal(t, dbPath).LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s, "logout wipes the saved session")
}

func TestApp_PersistsRefreshedTokens(t *testing.T) {
	ctx := context.Background()
	store := openLocal(t, filepath.Join(t.TempDir(), "cli.db"))
	s := &models.Session{AccessToken: "old", RefreshToken: "r"}

	a, _ := newTestApp(&fakeAPI{}, s)
	a.local = store
	a.userName = "bob"
	a.saved = *s

	require.NoError(t, a.Refresh(ctx))

	email, saved, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", email)
	assert.Equal(t, "refreshed", saved.AccessToken)
}

func TestApp_TasksFallBackToCache(t *testing.T) {
	ctx := context.Background()
	store := openLocal(t, filepath.Join(t.TempDir(), "cli.db"))
	fetched := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	f := &fakeAPI{tasks: []models.Task{{ID: "t1", Title: "cached one", Priority: "low", CreatedAt: fetched, UpdatedAt: fetched}}}
	a, out := newTestApp(f, &models.Session{AccessToken: "a"})
	a.local = store
	a.now = func() time.Time { return fetched }

	require.NoError(t, a.Tasks(ctx))

	f.tasks, f.listErr = nil, api.ErrUnavailable
	out.Reset()
	assert.ErrorIs(t, a.Tasks(ctx), api.ErrUnavailable)
	assert.Contains(t, out.String(), "showing tasks cached at")
	assert.Contains(t, out.String(), "cached one")
	assert.True(t, a.isLoggedIn())
}

func TestApp_UnavailableWithoutCache(t *testing.T) {
	store := openLocal(t, filepath.Join(t.TempDir(), "cli.db"))
	a, out := newTestApp(&fakeAPI{listErr: api.ErrUnavailable}, &models.Session{AccessToken: "a"})
	a.local = store

	assert.Error(t, a.Tasks(context.Background()))
	assert.Contains(t, out.String(), "Server unavailable")
	assert.NotContains(t, out.String(), "cached at")
}

func TestApp_UnauthorizedWipesLocalState(t *testing.T) {
	ctx := context.Background()
	store := openLocal(t, filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, store.SaveSession(ctx, "bob", &models.Session{AccessToken: "a", RefreshToken: "r"}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	client, err := api.NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	var out bytes.Buffer
	a := &App{api: client, local: store, out: &out, now: time.Now}
	a.restoreSession(ctx)
	require.True(t, a.isLoggedIn())

	assert.Error(t, a.Tasks(ctx))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Session expired")

	_, s, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestNewApp_OpensLocalStore(t *testing.T) {
	cfg := configFor(filepath.Join(t.TempDir(), "new.db"))
	a, err := NewApp(&cfg)
	require.NoError(t, err)
	require.NotNil(t, a.local)
	a.close()

	cfg = configFor("")
	a, err = NewApp(&cfg)
	require.NoError(t, err)
	assert.Nil(t, a.local)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg = configFor(filepath.Join(blocker, "x.db"))
	_, err = NewApp(&cfg)
	assert.Error(t, err)
}
