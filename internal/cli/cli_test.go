package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/five82/gitlook/internal/credentials"
	"github.com/five82/gitlook/internal/github"
	"github.com/five82/gitlook/internal/githubtest"
)

type testEnv struct {
	logFile string
	args    []string
}

// newTestEnv isolates every file gitlook touches in a temp dir and points
// the API at apiURL with a page size of 2.
func newTestEnv(t *testing.T, apiURL string) testEnv {
	t.Helper()
	for _, name := range credentials.EnvVars {
		t.Setenv(name, "")
	}
	t.Setenv("GITLOOK_API_URL", "")
	t.Setenv("GITLOOK_LOG_LEVEL", "")

	dir := t.TempDir()
	logFile := filepath.Join(dir, "gitlook.log")
	cfg := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("api_url = %q\npage_size = 2\nlog_file = %q\n", apiURL, logFile)
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o600))

	return testEnv{
		logFile: logFile,
		args: []string{
			"--config", cfg,
			"--prefs", filepath.Join(dir, "prefs.toml"),
			"--credentials", filepath.Join(dir, "credentials.toml"),
		},
	}
}

func (e testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, e.args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUsers_TableAcrossPages(t *testing.T) {
	srv := githubtest.NewServer(t, githubtest.WithUsers(githubtest.Users(1, 5)...))
	env := newTestEnv(t, srv.URL)

	out, err := env.run(t, "", "users", "--pages", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "LOGIN")
	for _, login := range []string{"user1", "user2", "user3", "user4"} {
		assert.Contains(t, out, login)
	}
	assert.NotContains(t, out, "user5")
	assert.Len(t, srv.Requests(), 2)
}

func TestUsers_JSONDescending(t *testing.T) {
	srv := githubtest.NewServer(t, githubtest.WithUsers(githubtest.Users(1, 3)...))
	env := newTestEnv(t, srv.URL)

	out, err := env.run(t, "", "users", "--pages", "5", "--sort", "desc", "-o", "json")
	require.NoError(t, err)

	var users []github.User
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	require.Len(t, users, 3)
	assert.Equal(t, "user3", users[0].Login)
	assert.Equal(t, "user1", users[2].Login)
	// Stops once the short page arrives.
	assert.Len(t, srv.Requests(), 2)
}

func TestUsers_YAML(t *testing.T) {
	srv := githubtest.NewServer(t, githubtest.WithUsers(githubtest.Users(7, 7)...))
	env := newTestEnv(t, srv.URL)

	out, err := env.run(t, "", "users", "--output", "yaml")
	require.NoError(t, err)

	var users []github.User
	require.NoError(t, yaml.Unmarshal([]byte(out), &users))
	require.Len(t, users, 1)
	assert.Equal(t, int64(7), users[0].ID)
}

func TestUsers_RejectsBadFlags(t *testing.T) {
	env := newTestEnv(t, "https://api.github.com")

	_, err := env.run(t, "", "users", "--sort", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")

	_, err = env.run(t, "", "users", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")

	_, err = env.run(t, "", "users", "--pages", "0")
	require.Error(t, err)
}

func TestUsers_ReportsAPIFailure(t *testing.T) {
	srv := githubtest.NewServer(t,
		githubtest.WithUsers(githubtest.Users(1, 3)...),
		githubtest.WithToken("secret"),
	)
	env := newTestEnv(t, srv.URL)

	_, err := env.run(t, "", "users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad credentials")

	out, err := env.run(t, "", "users", "--token", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "user1")
}

func TestUser_PrintsProfileWithoutForks(t *testing.T) {
	srv := githubtest.NewServer(t,
		githubtest.WithUserDetail(github.UserDetail{Login: "octocat", Name: "The Octocat", Location: "San Francisco"}),
		githubtest.WithRepositories("octocat",
			github.Repository{Name: "hello-world", Language: "Go", StargazersCount: 12},
			github.Repository{Name: "forked", Fork: true, StargazersCount: 99},
		),
	)
	env := newTestEnv(t, srv.URL)

	out, err := env.run(t, "", "user", "octocat")
	require.NoError(t, err)
	assert.Contains(t, out, "The Octocat")
	assert.Contains(t, out, "San Francisco")
	assert.Contains(t, out, "hello-world")
	assert.NotRegexp(t, `(?m)^forked\s`, out)
	assert.Contains(t, out, "1 forked repositories hidden.")

	out, err = env.run(t, "", "user", "octocat", "-o", "json")
	require.NoError(t, err)
	var doc struct {
		TotalStars   int `json:"total_stars"`
		ForksHidden  int `json:"forks_hidden"`
		Repositories []github.Repository
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 12, doc.TotalStars)
	assert.Equal(t, 1, doc.ForksHidden)
	assert.Len(t, doc.Repositories, 1)
}

func TestUser_UnknownLogin(t *testing.T) {
	srv := githubtest.NewServer(t)
	env := newTestEnv(t, srv.URL)

	_, err := env.run(t, "", "user", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestToken_SetStatusClear(t *testing.T) {
	env := newTestEnv(t, "https://api.github.com")

	out, err := env.run(t, "ghp_abcdef123456\n", "token", "set")
	require.NoError(t, err)
	assert.Contains(t, out, "********3456")
	assert.NotContains(t, out, "ghp_abcdef")

	out, err = env.run(t, "", "token", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "********3456")
	assert.Contains(t, out, "credentials.toml")

	out, err = env.run(t, "", "token", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")

	out, err = env.run(t, "", "token", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No token configured")
}

func TestToken_SetRejectsEmpty(t *testing.T) {
	env := newTestEnv(t, "https://api.github.com")

	_, err := env.run(t, "\n", "token", "set")
	require.Error(t, err)
}

func TestToken_StatusReportsOrigin(t *testing.T) {
	env := newTestEnv(t, "https://api.github.com")

	out, err := env.run(t, "", "token", "status", "--token", "flagtoken")
	require.NoError(t, err)
	assert.Contains(t, out, "(from --token)")

	t.Setenv("GITHUB_TOKEN", "envtoken")
	out, err = env.run(t, "", "token", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "(from $GITHUB_TOKEN)")
}

func TestToken_StatusCheck(t *testing.T) {
	srv := githubtest.NewServer(t,
		githubtest.WithUsers(githubtest.Users(1, 1)...),
		githubtest.WithToken("good"),
	)
	env := newTestEnv(t, srv.URL)

	out, err := env.run(t, "", "token", "status", "--check", "--token", "good")
	require.NoError(t, err)
	assert.Contains(t, out, "accepted")

	_, err = env.run(t, "", "token", "status", "--check", "--token", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token rejected")
}

func TestLogs_PrettyPrintsTail(t *testing.T) {
	env := newTestEnv(t, "https://api.github.com")

	records := strings.Join([]string{
		`{"level":"debug","component":"listing","message":"page requested"}`,
		`{"level":"warn","component":"listing","message":"fetch failed"}`,
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(env.logFile, []byte(records), 0o600))

	out, err := env.run(t, "", "logs", "--level", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "fetch failed")
	assert.NotContains(t, out, "page requested")

	out, err = env.run(t, "", "logs", "-n", "1", "--level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "fetch failed")
	assert.NotContains(t, out, "page requested")
}
