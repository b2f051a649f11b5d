package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/client/api"
	"github.com/dmitrijs2005/taskpulse/internal/client/config"
	"github.com/dmitrijs2005/taskpulse/internal/logging"
	serverconfig "github.com/dmitrijs2005/taskpulse/internal/server/config"
	"github.com/dmitrijs2005/taskpulse/internal/server/httpapi"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskpulse/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newBackend(t *testing.T) string {
	t.Helper()
	var cfg serverconfig.Config
	cfg.LoadDefaults()
	cfg.AccessSecret = "test-access-secret"
	cfg.RefreshSecret = "test-refresh-secret"
	cfg.BcryptCost = bcrypt.MinCost

	m := repomanager.NewInMemoryRepositoryManager()
	ss, err := services.NewSessionService(m, &cfg, logging.Nop{})
	require.NoError(t, err)
	ts := services.NewTaskService(m, logging.Nop{})

	srv := httptest.NewServer(httpapi.NewHTTPServer("127.0.0.1:0", logging.Nop{}, ss, ts, time.Second, "test").Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestNewApp_InvalidURL(t *testing.T) {
	_, err := NewApp(&config.Config{ServerURL: "not a url", RequestTimeout: time.Second})
	assert.Error(t, err)
}

func TestApp_EndToEnd(t *testing.T) {
	silence(t)
	origGP := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte("pw-123"), nil }
	t.Cleanup(func() { getPassword = origGP })

	a, err := NewApp(&config.Config{ServerURL: newBackend(t), RequestTimeout: 2 * time.Second, LocalDBPath: filepath.Join(t.TempDir(), "cli.db")})
	require.NoError(t, err)

	input := strings.Join([]string{
		"tasks",
		"register", "carol@example.org",
		"login", "carol@example.org",
		"add", "water plants", "", "low",
		"tasks",
		"refresh",
		"logout",
		"exit",
	}, "\n") + "\n"

	var out bytes.Buffer
	a.reader = bufio.NewReader(strings.NewReader(input))
	a.out = &out

	a.Run(context.Background())

	text := out.String()
	assert.Contains(t, text, "Please log in first")
	assert.Contains(t, text, "Registered")
	assert.Contains(t, text, "Login successful")
	assert.Contains(t, text, "Created task")
	assert.Contains(t, text, "water plants")
	assert.Contains(t, text, "low")
	assert.Contains(t, text, "Access token refreshed")
	assert.Contains(t, text, "Logged out")
	assert.False(t, a.isLoggedIn())
}

func TestApp_SessionIsPerApp(t *testing.T) {
	url := newBackend(t)
	client, err := api.NewClient(url, time.Second)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, client.Register(ctx, "d@example.org", "pw"))

	s, err := client.Login(ctx, "d@example.org", "pw")
	require.NoError(t, err)

	var out1, out2 bytes.Buffer
	a1 := &App{api: client, session: s, out: &out1, now: time.Now}
	a2 := &App{api: client, out: &out2, now: time.Now}

	require.NoError(t, a1.Tasks(ctx))
	assert.Error(t, a2.Tasks(ctx))
	assert.Contains(t, out2.String(), "Please log in first")
}

func configFor(dbPath string) config.Config {
	return config.Config{ServerURL: "http://localhost:5000", RequestTimeout: time.Second, LocalDBPath: dbPath}
}
