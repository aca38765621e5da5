package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/gitlook/internal/credentials"
	"github.com/five82/gitlook/internal/github"
	"github.com/five82/gitlook/internal/githubtest"
	"github.com/five82/gitlook/internal/listing"
)

// testOptions writes a config pointing at apiURL and returns Options whose
// files all live in a temp dir.
func testOptions(t *testing.T, apiURL string) Options {
	t.Helper()
	for _, name := range credentials.EnvVars {
		t.Setenv(name, "")
	}
	t.Setenv("GITLOOK_API_URL", "")
	t.Setenv("GITLOOK_LOG_LEVEL", "")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("api_url = %q\npage_size = 2\nlog_file = %q\n", apiURL, filepath.Join(dir, "gitlook.log"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

	return Options{
		ConfigPath:      cfgPath,
		PrefsPath:       filepath.Join(dir, "prefs.toml"),
		CredentialsPath: filepath.Join(dir, "credentials.toml"),
	}
}

func TestSetup_UsesStoredTokenAndConfig(t *testing.T) {
	srv := githubtest.NewServer(t,
		githubtest.WithUsers(githubtest.Users(1, 3)...),
		githubtest.WithToken("stored-token"),
	)
	opts := testOptions(t, srv.URL)
	require.NoError(t, credentials.NewStore(opts.CredentialsPath).Save("stored-token"))

	env, err := Setup(opts, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })

	assert.Equal(t, credentials.OriginStore, env.Auth.Origin)
	assert.Equal(t, 2, env.Config.PageSize)

	ctl := env.NewListing(listing.SortDescending)
	snap := ctl.StartOrReset(context.Background(), env.Auth.Token)
	require.NoError(t, snap.Err)
	assert.Equal(t, []int64{2, 1}, []int64{snap.Items[0].ID, snap.Items[1].ID})
	assert.True(t, snap.HasMore)
}

func TestSetup_FlagTokenWins(t *testing.T) {
	srv := githubtest.NewServer(t)
	opts := testOptions(t, srv.URL)
	require.NoError(t, credentials.NewStore(opts.CredentialsPath).Save("stored-token"))
	opts.Token = "flag-token"

	env, err := Setup(opts, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })

	assert.Equal(t, credentials.OriginFlag, env.Auth.Origin)
	assert.Equal(t, "flag-token", env.Auth.Token)
}

func TestSetup_InvalidConfig(t *testing.T) {
	opts := testOptions(t, "https://api.github.com")
	require.NoError(t, os.WriteFile(opts.ConfigPath, []byte("timeout = \"soon\"\n"), 0o600))

	_, err := Setup(opts, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestEnv_ProfileLoader(t *testing.T) {
	srv := githubtest.NewServer(t,
		githubtest.WithUserDetail(github.UserDetail{Login: "octocat", Name: "The Octocat"}),
		githubtest.WithRepositories("octocat", github.Repository{Name: "hello-world", StargazersCount: 3}),
	)
	env, err := Setup(testOptions(t, srv.URL), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })

	p, err := env.NewProfileLoader().Load(context.Background(), "", "octocat")
	require.NoError(t, err)
	assert.Equal(t, "The Octocat", p.User.Name)
	require.Len(t, p.Repositories, 1)
	assert.Equal(t, 3, p.TotalStars())
}
