package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskpulse/internal/client/api"
	"github.com/dmitrijs2005/taskpulse/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// readCredentials prompts for an email and a password. The password bytes
// are wiped before returning.
func (a *App) readCredentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(password)

	return email, string(password), nil
}

// Register prompts for credentials and creates a new account.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return a.fail(ctx, err)
	}

	if err := a.api.Register(ctx, email, password); err != nil {
		return a.fail(ctx, err)
	}

	fmt.Fprintln(a.out, "Registered. You can log in now.")
	return nil
}

// Login prompts for credentials and, on success, replaces the current session.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return a.fail(ctx, err)
	}

	s, err := a.api.Login(ctx, email, password)
	if err != nil {
		return a.fail(ctx, err)
	}

	if a.userName != "" && a.userName != email {
		a.forget(ctx)
	}
	a.session = s
	a.userName = email
	a.persist(ctx)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Refresh exchanges the stored refresh token for a new access token.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.api.Refresh(ctx, a.session); err != nil {
		return a.fail(ctx, err)
	}
	a.persist(ctx)
	fmt.Fprintln(a.out, "Access token refreshed")
	return nil
}

// Logout revokes the session on the server and forgets it locally. The local
// session is dropped even if the server call fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx, a.session)
	a.forget(ctx)
	if err != nil && !errors.Is(err, api.ErrUnauthorized) {
		return a.fail(ctx, err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// fail reports err to the user and returns it. A session the server no
// longer accepts is dropped.
func (a *App) fail(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, api.ErrNotLoggedIn):
		fmt.Fprintln(a.out, "Please log in first")
	case errors.Is(err, api.ErrUnauthorized):
		a.forget(ctx)
		fmt.Fprintln(a.out, "Session expired, please log in again")
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable:", err)
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}
