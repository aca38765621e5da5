package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Fetcher defines the read-only GitHub calls gitlook makes.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchUsers(ctx context.Context, token string, since *int64, perPage int) ([]User, error)
	FetchUser(ctx context.Context, token, login string) (*UserDetail, error)
	FetchRepositories(ctx context.Context, token, login string) ([]Repository, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the GitHub REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    zerolog.Logger

	anonymousOnce sync.Once
}

const (
	DefaultBaseURL   = "https://api.github.com"
	DefaultUserAgent = "gitlook/0.1"
	DefaultTimeout   = 15 * time.Second

	// MaxPerPage is the ceiling GitHub enforces on per_page.
	MaxPerPage = 100

	apiVersion   = "2022-11-28"
	maxBodyBytes = 8 << 20
	reposPerPage = 100
)

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header GitHub requires.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient builds a Client for the given API base URL. An empty value uses
// api.github.com; a path (GitHub Enterprise's /api/v3) is preserved.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchUsers retrieves one page of users with identifiers greater than since.
func (c *Client) FetchUsers(ctx context.Context, token string, since *int64, perPage int) ([]User, error) {
	if c == nil {
		return nil, invalidRequest("client is nil")
	}
	if perPage < 1 || perPage > MaxPerPage {
		return nil, invalidRequest("per_page %d out of range 1..%d", perPage, MaxPerPage)
	}
	values := url.Values{}
	values.Set("per_page", strconv.Itoa(perPage))
	if since != nil {
		values.Set("since", strconv.FormatInt(*since, 10))
	}
	endpoint := c.endpoint(values, "users")

	var users []User
	if err := c.get(ctx, token, endpoint, &users); err != nil {
		return nil, err
	}
	c.logger.Debug().
		Int("count", len(users)).
		Int("per_page", perPage).
		Str("since", values.Get("since")).
		Msg("fetched users page")
	return users, nil
}

// FetchUser retrieves the profile for login.
func (c *Client) FetchUser(ctx context.Context, token, login string) (*UserDetail, error) {
	if c == nil {
		return nil, invalidRequest("client is nil")
	}
	segment, err := loginSegment(login)
	if err != nil {
		return nil, err
	}
	var detail UserDetail
	if err := c.get(ctx, token, c.endpoint(nil, "users", segment), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FetchRepositories retrieves the public repositories owned by login, most
// recently updated first.
func (c *Client) FetchRepositories(ctx context.Context, token, login string) ([]Repository, error) {
	if c == nil {
		return nil, invalidRequest("client is nil")
	}
	segment, err := loginSegment(login)
	if err != nil {
		return nil, err
	}
	values := url.Values{}
	values.Set("per_page", strconv.Itoa(reposPerPage))
	values.Set("sort", "updated")

	var repos []Repository
	if err := c.get(ctx, token, c.endpoint(values, "users", segment, "repos"), &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) endpoint(query url.Values, segments ...string) *url.URL {
	u := c.baseURL.JoinPath(segments...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u
}

func (c *Client) get(ctx context.Context, token string, endpoint *url.URL, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return invalidRequest("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	if token = strings.TrimSpace(token); token != "" {
		(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
	} else {
		c.anonymousOnce.Do(func() {
			c.logger.Warn().Msg("no personal access token; requests are unauthenticated and rate-limited")
		})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return networkError(fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()
	c.logRateLimit(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return networkError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := statusError(resp.StatusCode, body)
		c.logger.Debug().
			Str("path", endpoint.Path).
			Int("status", resp.StatusCode).
			Str("kind", apiErr.Kind.String()).
			Msg("request failed")
		return apiErr
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return &APIError{Kind: KindDecoding, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) logRateLimit(resp *http.Response) {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return
	}
	ev := c.logger.Debug().Str("remaining", remaining)
	if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		ev = ev.Time("reset", time.Unix(reset, 0))
	}
	ev.Msg("rate limit")
}

func loginSegment(login string) (string, error) {
	trimmed := strings.TrimSpace(login)
	if trimmed == "" {
		return "", invalidRequest("login is empty")
	}
	if strings.ContainsAny(trimmed, "/?#") {
		return "", invalidRequest("login %q contains reserved characters", login)
	}
	return url.PathEscape(trimmed), nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
