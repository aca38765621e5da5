// Package cli defines the gitlook command tree.
//
// The root command starts the TUI. The subcommands print to stdout instead
// and suit scripts:
//
//   - users: page through /users with the same controller the TUI uses
//   - user <login>: one profile and its own repositories
//   - token set|clear|status: manage the stored personal access token
//   - logs: pretty-print the end of the log file
//
// Persistent flags (--config, --prefs, --credentials, --token, --debug) are
// shared through an app.Options value bound once on the root command.
package cli
