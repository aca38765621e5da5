package credentials

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "none.toml"))

	token, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStore_SaveLoadClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gitlook")
	path := filepath.Join(dir, "credentials.toml")
	s := NewStore(path)

	require.NoError(t, s.Save("  ghp_secret  "))

	token, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", token)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		dirInfo, err := os.Stat(dir)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
	}

	require.NoError(t, s.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, s.Clear(), "clearing twice is fine")
}

func TestStore_SaveEmptyClears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	s := NewStore(path)
	require.NoError(t, s.Save("tok"))

	require.NoError(t, s.Save(""))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s := NewStore("")
	path, err := s.Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "gitlook", "credentials.toml"), path)
}

func TestStore_LoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	require.NoError(t, os.WriteFile(path, []byte("token = \n"), 0o600))

	_, err := NewStore(path).Load()
	assert.ErrorContains(t, err, "parse credentials")
}

func TestResolve_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	s := NewStore(path)
	require.NoError(t, s.Save("stored"))

	t.Setenv("GITLOOK_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	r, err := Resolve("", s)
	require.NoError(t, err)
	assert.Equal(t, Resolution{Token: "stored", Origin: OriginStore}, r)

	t.Setenv("GITHUB_TOKEN", "from-github-env")
	r, err = Resolve("", s)
	require.NoError(t, err)
	assert.Equal(t, Resolution{Token: "from-github-env", Origin: OriginEnv, Env: "GITHUB_TOKEN"}, r)

	t.Setenv("GITLOOK_TOKEN", "from-gitlook-env")
	r, err = Resolve("", s)
	require.NoError(t, err)
	assert.Equal(t, "GITLOOK_TOKEN", r.Env)

	r, err = Resolve("from-flag", s)
	require.NoError(t, err)
	assert.Equal(t, Resolution{Token: "from-flag", Origin: OriginFlag}, r)
}

func TestResolve_NothingConfigured(t *testing.T) {
	t.Setenv("GITLOOK_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	r, err := Resolve("", NewStore(filepath.Join(t.TempDir(), "none.toml")))
	require.NoError(t, err)
	assert.Equal(t, OriginNone, r.Origin)
	assert.Empty(t, r.Token)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "***", Mask("abc"))
	assert.Equal(t, "********1234", Mask("ghp_abcdef1234"))
}
