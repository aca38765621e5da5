// Package githubtest provides an in-process fake of the GitHub REST endpoints
// gitlook uses, for tests in other packages.
package githubtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/five82/gitlook/internal/github"
)

// Request is a recorded inbound request.
type Request struct {
	Path          string
	Query         url.Values
	Authorization string
	UserAgent     string
}

type failure struct {
	status int
	body   string
}

// Server is a fake GitHub API backed by httptest.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	token    string
	users    []github.User
	details  map[string]github.UserDetail
	repos    map[string][]github.Repository
	failures []failure
	requests []Request
}

// Option configures a Server.
type Option func(*Server)

// WithUsers seeds the /users listing. Users are served in ascending ID order.
func WithUsers(users ...github.User) Option {
	return func(s *Server) {
		s.users = append(s.users, users...)
	}
}

// WithUserDetail seeds a /users/{login} profile.
func WithUserDetail(detail github.UserDetail) Option {
	return func(s *Server) {
		s.details[detail.Login] = detail
	}
}

// WithRepositories seeds /users/{login}/repos.
func WithRepositories(login string, repos ...github.Repository) Option {
	return func(s *Server) {
		s.repos[login] = append(s.repos[login], repos...)
	}
}

// WithToken makes every request without "Bearer <token>" fail with 401.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// NewServer starts a fake API that is closed when the test ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		details: make(map[string]github.UserDetail),
		repos:   make(map[string][]github.Repository),
	}
	for _, opt := range opts {
		opt(s)
	}
	sort.SliceStable(s.users, func(i, j int) bool { return s.users[i].ID < s.users[j].ID })

	r := chi.NewRouter()
	r.Use(s.record, s.injectFailure, s.authorize)
	r.Get("/users", s.listUsers)
	r.Get("/users/{login}", s.getUser)
	r.Get("/users/{login}/repos", s.listRepos)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// FailNext makes the next request respond with status and body.
// Calls queue up in order.
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{status: status, body: body})
}

// Requests returns a copy of every request served so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Users generates users with identifiers from..to inclusive named user<id>.
func Users(from, to int64) []github.User {
	if to < from {
		return nil
	}
	users := make([]github.User, 0, to-from+1)
	for id := from; id <= to; id++ {
		users = append(users, github.User{
			ID:        id,
			Login:     fmt.Sprintf("user%d", id),
			AvatarURL: fmt.Sprintf("https://avatars.example.com/u/%d", id),
		})
	}
	return users
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
			UserAgent:     r.Header.Get("User-Agent"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var f *failure
		if len(s.failures) > 0 {
			f = &s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if f != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"message":           "Bad credentials",
				"documentation_url": "https://docs.github.com/rest",
			})
			return
		}
		w.Header().Set("X-RateLimit-Remaining", "4999")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	perPage := 30
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		perPage = min(v, github.MaxPerPage)
	}
	var since int64
	if v, err := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64); err == nil {
		since = v
	}

	s.mu.Lock()
	page := make([]github.User, 0, perPage)
	for _, u := range s.users {
		if u.ID <= since {
			continue
		}
		page = append(page, u)
		if len(page) == perPage {
			break
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")
	s.mu.Lock()
	detail, ok := s.details[login]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) listRepos(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")
	s.mu.Lock()
	repos, ok := s.repos[login]
	_, known := s.details[login]
	s.mu.Unlock()
	if !ok && !known {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	if repos == nil {
		repos = []github.Repository{}
	}
	writeJSON(w, http.StatusOK, repos)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
