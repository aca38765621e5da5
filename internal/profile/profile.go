package profile

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/gitlook/internal/github"
)

// Source fetches a single user's profile and repositories.
type Source interface {
	FetchUser(ctx context.Context, token, login string) (*github.UserDetail, error)
	FetchRepositories(ctx context.Context, token, login string) ([]github.Repository, error)
}

var _ Source = (*github.Client)(nil)

// Profile joins a user's detail with the repositories they own.
type Profile struct {
	User         github.UserDetail
	Repositories []github.Repository
	// Forks is the number of forked repositories left out of Repositories.
	Forks int
}

// TotalStars sums stargazers over Repositories.
func (p Profile) TotalStars() int {
	total := 0
	for _, r := range p.Repositories {
		total += r.StargazersCount
	}
	return total
}

// Loader fetches profiles.
type Loader struct {
	source Source
	logger zerolog.Logger
}

// NewLoader returns a Loader reading from source.
func NewLoader(source Source, logger zerolog.Logger) *Loader {
	return &Loader{
		source: source,
		logger: logger.With().Str("component", "profile").Logger(),
	}
}

// Load fetches the detail and repositories of login concurrently. Either
// failure cancels the other call and fails the whole load.
func (l *Loader) Load(ctx context.Context, token, login string) (Profile, error) {
	var (
		detail *github.UserDetail
		repos  []github.Repository
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := l.source.FetchUser(gctx, token, login)
		if err != nil {
			return fmt.Errorf("fetch user %s: %w", login, err)
		}
		detail = d
		return nil
	})
	g.Go(func() error {
		r, err := l.source.FetchRepositories(gctx, token, login)
		if err != nil {
			return fmt.Errorf("fetch repositories of %s: %w", login, err)
		}
		repos = r
		return nil
	})
	if err := g.Wait(); err != nil {
		l.logger.Warn().Err(err).Str("login", login).Msg("profile load failed")
		return Profile{}, err
	}

	p := Profile{User: *detail}
	p.Repositories, p.Forks = ownRepositories(repos)
	l.logger.Debug().
		Str("login", login).
		Int("repositories", len(p.Repositories)).
		Int("forks", p.Forks).
		Msg("profile loaded")
	return p, nil
}

// ownRepositories drops forks and orders the rest by stars, most first, then
// by name.
func ownRepositories(repos []github.Repository) ([]github.Repository, int) {
	own := make([]github.Repository, 0, len(repos))
	forks := 0
	for _, r := range repos {
		if r.Fork {
			forks++
			continue
		}
		own = append(own, r)
	}
	slices.SortStableFunc(own, func(a, b github.Repository) int {
		if a.StargazersCount != b.StargazersCount {
			return b.StargazersCount - a.StargazersCount
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return own, forks
}
