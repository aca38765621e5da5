// Package config loads gitlook's TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/gitlook/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. GITLOOK_API_URL and GITLOOK_LOG_LEVEL override the result
//
// # TOML Format
//
//	api_url = "https://api.github.com"   # GitHub Enterprise: https://host/api/v3
//	page_size = 50                       # clamped to 1..100
//	timeout = "15s"                      # per request
//	user_agent = "gitlook/0.1"
//	log_level = "info"                   # trace, debug, info, warn, error
//	log_file = "~/.local/state/gitlook/gitlook.log"
//
// Every field is optional. Tilde expansion is performed for log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and invalid timeout durations
//
// The token is deliberately absent: it lives in the credentials store or the
// environment, never in this file.
package config
