package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/gitlook/internal/github"
)

func logins(users []github.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Login
	}
	return out
}

func named(names ...string) []github.User {
	users := make([]github.User, len(names))
	for i, n := range names {
		users[i] = github.User{ID: int64(i + 1), Login: n}
	}
	return users
}

func TestSortUsers_CaseInsensitive(t *testing.T) {
	users := named("bob", "Alice", "carol")

	SortUsers(users, SortAscending)
	assert.Equal(t, []string{"Alice", "bob", "carol"}, logins(users))

	SortUsers(users, SortDescending)
	assert.Equal(t, []string{"carol", "bob", "Alice"}, logins(users))
}

func TestSortUsers_StableForEqualKeys(t *testing.T) {
	users := named("Zed", "amy", "AMY", "Amy")

	SortUsers(users, SortAscending)
	assert.Equal(t, []string{"amy", "AMY", "Amy", "Zed"}, logins(users))

	users = named("Zed", "amy", "AMY", "Amy")
	SortUsers(users, SortDescending)
	assert.Equal(t, []string{"Zed", "amy", "AMY", "Amy"}, logins(users))
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		in   string
		want SortOrder
	}{
		{"", SortAscending},
		{"asc", SortAscending},
		{"Ascending", SortAscending},
		{"DESC", SortDescending},
		{" descending ", SortDescending},
	}
	for _, tt := range tests {
		got, err := ParseSortOrder(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}

	_, err := ParseSortOrder("sideways")
	assert.ErrorIs(t, err, ErrInvalidSortOrder)
}

func TestSortOrder_ToggleAndString(t *testing.T) {
	assert.Equal(t, SortDescending, SortAscending.Toggle())
	assert.Equal(t, SortAscending, SortDescending.Toggle())
	assert.Equal(t, "asc", SortAscending.String())
	assert.Equal(t, "desc", SortDescending.String())
	assert.Equal(t, "Username Z-A", SortDescending.Label())
}
