// Package cli is the interactive habitkeeper terminal client.
//
// NewApp wires configuration, the SQLite state file, token persistence, the
// API gateway and the session and habit stores. App.Run starts a REPL that
// turns commands into store intents and renders the resulting state with
// lipgloss. Habit commands require a session; without one the REPL points
// the user at login and register.
package cli
