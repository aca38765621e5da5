// Package credentials persists the GitHub personal access token and resolves
// the token gitlook should use.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/gitlook/internal/config"
)

// DefaultPath is where the token is stored when no path is configured.
const DefaultPath = "~/.config/gitlook/credentials.toml"

// Store reads and writes the token file. The file is only ever readable by
// its owner.
type Store struct {
	path string
}

type tokenFile struct {
	Token string `toml:"token"`
}

// NewStore returns a store backed by path, or DefaultPath when path is blank.
func NewStore(path string) *Store {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the resolved file path.
func (s *Store) Path() (string, error) {
	return config.ExpandPath(s.path)
}

// Load returns the stored token, or "" when none is stored.
func (s *Store) Load() (string, error) {
	path, err := s.Path()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read credentials: %w", err)
	}
	var f tokenFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("parse credentials: %w", err)
	}
	return strings.TrimSpace(f.Token), nil
}

// Save stores token with mode 0600. An empty token removes the file.
func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return s.Clear()
	}

	path, err := s.Path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	data, err := toml.Marshal(tokenFile{Token: token})
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.toml")
	if err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the stored token. A missing file is not an error.
func (s *Store) Clear() error {
	path, err := s.Path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
