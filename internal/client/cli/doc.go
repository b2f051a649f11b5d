// Package cli provides the interactive TaskPulse command-line client.
//
// It wires configuration, the HTTP API client and an optional local SQLite
// store into a REPL. The App keeps the current *models.Session and passes it
// explicitly to every API call. With a local store the session survives
// restarts and the last fetched task list is shown when the server is down.
//
// Commands:
//   - register, login, refresh, logout
//   - tasks (list), add, done <id>, rm <id>
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
