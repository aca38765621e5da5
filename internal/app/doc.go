// Package app is the composition root for gitlook.
//
// Setup turns Options into an Env: it loads config.Config, opens the
// zerolog logger, resolves the GitHub token (flag, environment, stored
// file) and builds the github.Client. Env then hands out the listing
// controller and the profile loader, so the TUI and the plain CLI commands
// talk to GitHub through the same objects.
//
// Run starts the Bubble Tea UI on top of an Env. While the UI owns the
// terminal, log records go only to the log file.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> Setup()           config, logger, token, client
//	       ├─────> prefs.Load()      theme and sort order
//	       ├─────> NewListing()      paginated users controller
//	       ├─────> NewProfileLoader()
//	       └─────> ui.Run()          blocks until quit
//
// Fatal errors are an invalid config file, an unusable log file and an
// invalid API URL. An unreadable token file only logs a warning; gitlook
// then runs unauthenticated.
package app
