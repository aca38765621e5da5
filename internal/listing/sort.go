package listing

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/five82/gitlook/internal/github"
)

// SortOrder is the display order of the listing by login.
type SortOrder int

const (
	// SortAscending orders logins A to Z. It is the zero value.
	SortAscending SortOrder = iota
	// SortDescending orders logins Z to A.
	SortDescending
)

// ErrInvalidSortOrder is returned by ParseSortOrder for unknown input.
var ErrInvalidSortOrder = errors.New("invalid sort order")

func (o SortOrder) String() string {
	if o == SortDescending {
		return "desc"
	}
	return "asc"
}

// Label is the human-readable name shown in headers.
func (o SortOrder) Label() string {
	if o == SortDescending {
		return "Username Z-A"
	}
	return "Username A-Z"
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == SortDescending {
		return SortAscending
	}
	return SortDescending
}

// ParseSortOrder accepts asc, ascending, desc and descending in any case.
// An empty string is SortAscending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	default:
		return SortAscending, fmt.Errorf("%w: %q (want asc or desc)", ErrInvalidSortOrder, s)
	}
}

type keyedUser struct {
	key  string
	user github.User
}

// SortUsers reorders users in place by case-folded login. The sort is stable
// in both directions: equal keys keep their relative order.
func SortUsers(users []github.User, order SortOrder) {
	if len(users) < 2 {
		return
	}
	// A Caser carries state and must not be shared across goroutines.
	fold := cases.Fold()
	keyed := make([]keyedUser, len(users))
	for i, u := range users {
		keyed[i] = keyedUser{key: fold.String(u.Login), user: u}
	}
	slices.SortStableFunc(keyed, func(a, b keyedUser) int {
		c := strings.Compare(a.key, b.key)
		if order == SortDescending {
			return -c
		}
		return c
	})
	for i := range keyed {
		users[i] = keyed[i].user
	}
}
