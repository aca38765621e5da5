package credentials

import (
	"os"
	"strings"
)

// Origin names where a resolved token came from.
type Origin string

const (
	OriginFlag  Origin = "flag"
	OriginEnv   Origin = "env"
	OriginStore Origin = "store"
	OriginNone  Origin = "none"
)

// Environment variables consulted by Resolve, in order.
var EnvVars = []string{"GITLOOK_TOKEN", "GITHUB_TOKEN"}

// Resolution is the token chosen by Resolve.
type Resolution struct {
	Token  string
	Origin Origin
	// Env is the variable the token was read from when Origin is OriginEnv.
	Env string
}

// Resolve picks the token in order: flag, EnvVars, the store. With none set
// the token is empty and requests go out unauthenticated. The store is only
// read when nothing earlier supplies a token.
func Resolve(flag string, store *Store) (Resolution, error) {
	if t := strings.TrimSpace(flag); t != "" {
		return Resolution{Token: t, Origin: OriginFlag}, nil
	}
	for _, name := range EnvVars {
		if t := strings.TrimSpace(os.Getenv(name)); t != "" {
			return Resolution{Token: t, Origin: OriginEnv, Env: name}, nil
		}
	}
	if store != nil {
		t, err := store.Load()
		if err != nil {
			return Resolution{Origin: OriginNone}, err
		}
		if t != "" {
			return Resolution{Token: t, Origin: OriginStore}, nil
		}
	}
	return Resolution{Origin: OriginNone}, nil
}

// Mask returns token with all but its last four characters hidden.
func Mask(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
