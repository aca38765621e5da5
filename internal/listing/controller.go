package listing

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/gitlook/internal/github"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 50

// UserSource fetches one page of users strictly after the since cursor.
type UserSource interface {
	FetchUsers(ctx context.Context, token string, since *int64, perPage int) ([]github.User, error)
}

var _ UserSource = (*github.Client)(nil)

// Phase summarises the listing for renderers.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseErrored:
		return "errored"
	default:
		return "idle"
	}
}

// Snapshot is a point-in-time copy of the listing state.
type Snapshot struct {
	Items        []github.User
	Cursor       *int64
	HasMore      bool
	IsLoading    bool
	Err          error
	ErrorMessage string
	SortOrder    SortOrder
	Phase        Phase
	// Pages counts successful fetches since the last reset.
	Pages int
}

// Observer receives every published snapshot.
type Observer func(Snapshot)

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize sets the page size, clamped to 1..github.MaxPerPage.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		c.pageSize = clampPageSize(n)
	}
}

// WithSortOrder sets the initial sort order.
func WithSortOrder(order SortOrder) Option {
	return func(c *Controller) {
		c.sortOrder = order
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller accumulates pages of users from a UserSource.
//
// At most one fetch is outstanding at any time. Observers run with pubMu held,
// so they may call Snapshot but must not call any other Controller method.
type Controller struct {
	source   UserSource
	pageSize int
	logger   zerolog.Logger

	// pubMu orders mutations with their notifications.
	pubMu sync.Mutex

	mu        sync.Mutex
	items     []github.User
	cursor    *int64
	hasMore   bool
	inFlight  bool
	lastErr   error
	sortOrder SortOrder
	pages     int

	// generation increments on every reset. A fetch started under an older
	// generation is stale and its page is discarded.
	generation uint64
	// refetch is set when a reset lands while a fetch is outstanding.
	refetch      bool
	refetchToken string

	observers    map[int]Observer
	nextObserver int
}

// New returns an idle controller. No fetch happens until StartOrReset or
// LoadNextPage is called.
func New(source UserSource, opts ...Option) *Controller {
	c := &Controller{
		source:    source,
		pageSize:  DefaultPageSize,
		logger:    zerolog.Nop(),
		hasMore:   true,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "listing").Logger()
	return c
}

func clampPageSize(n int) int {
	return max(1, min(n, github.MaxPerPage))
}

// PageSize returns the configured page size.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// Subscribe registers fn for every published snapshot and returns a function
// that removes it.
func (c *Controller) Subscribe(fn Observer) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// StartOrReset discards everything loaded so far and fetches the first page.
// When a fetch is outstanding the reset still takes effect immediately; that
// fetch's page is discarded and a single first-page fetch follows it.
func (c *Controller) StartOrReset(ctx context.Context, token string) Snapshot {
	c.mutate(func() {
		c.resetLocked()
		if c.inFlight {
			c.refetch = true
			c.refetchToken = token
			c.logger.Debug().Msg("reset while fetching; first page will follow")
		}
	})
	return c.LoadNextPage(ctx, token)
}

// LoadNextPage fetches the page after the cursor and blocks until it settles.
// It is a no-op returning the current snapshot while a fetch is outstanding or
// when the listing is exhausted or failed.
func (c *Controller) LoadNextPage(ctx context.Context, token string) Snapshot {
	t, ok := c.begin(token)
	if !ok {
		return c.Snapshot()
	}
	for {
		users, err := c.source.FetchUsers(ctx, t.token, t.since, c.pageSize)
		var again bool
		t, again = c.settle(t, users, err)
		if !again {
			return c.Snapshot()
		}
	}
}

// Retry re-arms pagination after a failed fetch and loads the page after the
// cursor, or the first page when nothing was loaded. Without a recorded
// failure it behaves like LoadNextPage.
func (c *Controller) Retry(ctx context.Context, token string) Snapshot {
	var restart bool
	c.mutateIf(func() bool {
		if c.lastErr == nil || c.inFlight {
			return false
		}
		restart = len(c.items) == 0
		c.hasMore = true
		return true
	})
	if restart {
		return c.StartOrReset(ctx, token)
	}
	return c.LoadNextPage(ctx, token)
}

// SetSortOrder reorders the loaded items without any fetch.
func (c *Controller) SetSortOrder(order SortOrder) Snapshot {
	return c.mutate(func() {
		c.sortOrder = order
		SortUsers(c.items, order)
	})
}

// ChangeSortAndRefetch records order and restarts the listing from the first page.
func (c *Controller) ChangeSortAndRefetch(ctx context.Context, order SortOrder, token string) Snapshot {
	c.mutate(func() {
		c.sortOrder = order
	})
	return c.StartOrReset(ctx, token)
}

type ticket struct {
	generation uint64
	since      *int64
	token      string
}

func (c *Controller) begin(token string) (ticket, bool) {
	var (
		t       ticket
		started bool
	)
	c.mutateIf(func() bool {
		if c.inFlight || !c.hasMore {
			return false
		}
		c.inFlight = true
		c.lastErr = nil
		t = ticket{generation: c.generation, since: cloneCursor(c.cursor), token: token}
		started = true
		return true
	})
	if started {
		ev := c.logger.Debug().Int("per_page", c.pageSize)
		if t.since != nil {
			ev = ev.Int64("since", *t.since)
		}
		ev.Msg("fetching page")
	}
	return t, started
}

// settle applies a finished fetch. It reports a follow-up ticket when the
// result was stale and a first-page fetch is owed.
func (c *Controller) settle(t ticket, users []github.User, err error) (ticket, bool) {
	var (
		next  ticket
		again bool
	)
	c.mutate(func() {
		c.inFlight = false

		if t.generation != c.generation {
			c.logger.Debug().Int("discarded", len(users)).Msg("dropping page fetched before reset")
			if c.refetch && c.hasMore {
				c.refetch = false
				c.inFlight = true
				next = ticket{generation: c.generation, since: cloneCursor(c.cursor), token: c.refetchToken}
				c.refetchToken = ""
				again = true
			}
			return
		}

		if err != nil {
			c.lastErr = err
			c.hasMore = false
			c.logger.Warn().Err(err).Str("kind", github.KindOf(err).String()).Msg("fetch failed")
			return
		}
		c.mergeLocked(users)
	})
	return next, again
}

func (c *Controller) mergeLocked(users []github.User) {
	seen := make(map[int64]struct{}, len(c.items)+len(users))
	for _, u := range c.items {
		seen[u.ID] = struct{}{}
	}
	skipped := 0
	for _, u := range users {
		if _, dup := seen[u.ID]; dup {
			skipped++
			continue
		}
		seen[u.ID] = struct{}{}
		c.items = append(c.items, u)
	}
	if skipped > 0 {
		c.logger.Info().Int("skipped", skipped).Msg("skipped duplicate users")
	}

	if n := len(users); n > 0 {
		last := users[n-1].ID
		c.cursor = &last
	}
	c.hasMore = len(users) >= c.pageSize
	c.pages++
	SortUsers(c.items, c.sortOrder)

	c.logger.Debug().
		Int("fetched", len(users)).
		Int("total", len(c.items)).
		Bool("has_more", c.hasMore).
		Msg("page loaded")
}

func (c *Controller) resetLocked() {
	c.generation++
	c.items = nil
	c.cursor = nil
	c.hasMore = true
	c.lastErr = nil
	c.pages = 0
}

// mutate applies fn and publishes the result to observers.
func (c *Controller) mutate(fn func()) Snapshot {
	snap, _ := c.mutateIf(func() bool {
		fn()
		return true
	})
	return snap
}

// mutateIf applies fn and publishes only when fn reports a change.
func (c *Controller) mutateIf(fn func() bool) (Snapshot, bool) {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.Lock()
	changed := fn()
	snap := c.snapshotLocked()
	observers := c.observersLocked()
	c.mu.Unlock()

	if changed {
		for _, obs := range observers {
			obs(cloneSnapshot(snap))
		}
	}
	return snap, changed
}

func (c *Controller) observersLocked() []Observer {
	if len(c.observers) == 0 {
		return nil
	}
	ids := make([]int, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Observer, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.observers[id])
	}
	return out
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Items:     cloneUsers(c.items),
		Cursor:    cloneCursor(c.cursor),
		HasMore:   c.hasMore,
		IsLoading: c.inFlight,
		Err:       c.lastErr,
		SortOrder: c.sortOrder,
		Pages:     c.pages,
	}
	if c.lastErr != nil {
		snap.ErrorMessage = github.Message(c.lastErr)
	}
	switch {
	case c.inFlight:
		snap.Phase = PhaseLoading
	case c.lastErr != nil:
		snap.Phase = PhaseErrored
	case c.pages > 0:
		snap.Phase = PhaseLoaded
	default:
		snap.Phase = PhaseIdle
	}
	return snap
}

func cloneSnapshot(s Snapshot) Snapshot {
	s.Items = cloneUsers(s.Items)
	s.Cursor = cloneCursor(s.Cursor)
	return s
}

func cloneUsers(users []github.User) []github.User {
	if len(users) == 0 {
		return nil
	}
	dup := make([]github.User, len(users))
	copy(dup, users)
	return dup
}

func cloneCursor(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
