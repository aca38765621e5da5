// Package github provides a read-only client for the subset of the GitHub
// REST API gitlook uses.
//
// # Overview
//
// The package is split into three files:
//
//   - client.go: HTTP client, request construction and response handling
//   - types.go: records mirroring the API schema (User, UserDetail, Repository)
//   - errors.go: the classified error taxonomy and user-facing messages
//
// # Client Usage
//
//	client, err := github.NewClient("https://api.github.com",
//		github.WithLogger(logger),
//		github.WithTimeout(15*time.Second),
//	)
//	if err != nil {
//		return err
//	}
//
//	// First page, then the page after user 50.
//	users, err := client.FetchUsers(ctx, token, nil, 50)
//	since := users[len(users)-1].ID
//	more, err := client.FetchUsers(ctx, token, &since, 50)
//
// # API Endpoints
//
//   - GET /users?per_page=N&since=ID: users with identifiers greater than ID
//   - GET /users/{login}: a single profile
//   - GET /users/{login}/repos: repositories owned by login
//
// # Authentication
//
// A non-empty personal access token is sent as "Authorization: Bearer <token>"
// via golang.org/x/oauth2. An empty token is valid: requests go out without an
// Authorization header and GitHub's anonymous rate limits apply.
//
// # Error Handling
//
// Every failure is an *APIError carrying a Kind:
//
//   - KindInvalidRequest: the request could not be built (bad page size, login)
//   - KindUnauthorized: HTTP 401, with GitHub's message when one was sent
//   - KindAPI: other non-2xx responses carrying GitHub's {"message": ...} body
//   - KindHTTP: other non-2xx responses
//   - KindDecoding: a 2xx body that does not match the expected schema
//   - KindNetwork: transport failures, including context cancellation
//
// Each Kind has a sentinel (ErrUnauthorized, ErrNetwork, ...) for errors.Is.
// Message maps any error to the human-readable text shown in the UI.
//
// # Thread Safety
//
// The Client struct is safe for concurrent use.
package github
