package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Refresh(ctx context.Context) error {
	f.calls = append(f.calls, "refresh")
	return nil
}
func (f *fakeExec) Tasks(ctx context.Context) error { f.calls = append(f.calls, "tasks"); return nil }
func (f *fakeExec) Add(ctx context.Context) error   { f.calls = append(f.calls, "add"); return nil }
func (f *fakeExec) Done(ctx context.Context, id string) error {
	f.calls = append(f.calls, "done "+id)
	return nil
}
func (f *fakeExec) Remove(ctx context.Context, id string) error {
	f.calls = append(f.calls, "rm "+id)
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func silence(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		printed = append(printed, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &printed
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silence(t)

	input := strings.Join([]string{
		"help",
		"register",
		"login",
		"",
		"tasks",
		"list",
		"add",
		"done 42",
		"rm 42",
		"refresh",
		"logout",
		"exit",
		"tasks",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"register", "login", "tasks", "tasks", "add", "done 42", "rm 42", "refresh", "logout",
	}, exec.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	printed := silence(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("done\nrm a b\nfoobar\nquit\n")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *printed, "Usage: done <id>")
	assert.Contains(t, *printed, "Usage: rm <id>")
	assert.Contains(t, *printed, "Unknown command: foobar")
	assert.Contains(t, *printed, "Bye!")
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	printed := silence(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, bufio.NewReader(strings.NewReader("help")))
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "" }, bufio.NewReader(strings.NewReader("help")))

	assert.Contains(t, *printed, "Available commands: register, login, exit")
	assert.Contains(t, *printed, "Available commands: tasks, add, done <id>, rm <id>, refresh, logout, exit")
}

func TestRunREPL_StopsOnCancel(t *testing.T) {
	silence(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("register\n")))
	assert.Empty(t, exec.calls)
}
