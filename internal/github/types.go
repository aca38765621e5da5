package github

import (
	"encoding/json"
	"errors"
	"time"
)

// User is a record from the GitHub /users listing. Identity is by ID, which is
// also the value used as the pagination cursor.
type User struct {
	ID        int64  `json:"id"                 yaml:"id"`
	Login     string `json:"login"              yaml:"login"`
	AvatarURL string `json:"avatar_url"         yaml:"avatar_url"`
	URL       string `json:"url,omitempty"      yaml:"url,omitempty"`
	HTMLURL   string `json:"html_url,omitempty" yaml:"html_url,omitempty"`
}

// UnmarshalJSON decodes a user and rejects records missing an id or login.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        *int64  `json:"id"`
		Login     *string `json:"login"`
		AvatarURL string  `json:"avatar_url"`
		URL       string  `json:"url"`
		HTMLURL   string  `json:"html_url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == nil {
		return errors.New("user record missing id")
	}
	if raw.Login == nil || *raw.Login == "" {
		return errors.New("user record missing login")
	}
	*u = User{
		ID:        *raw.ID,
		Login:     *raw.Login,
		AvatarURL: raw.AvatarURL,
		URL:       raw.URL,
		HTMLURL:   raw.HTMLURL,
	}
	return nil
}

// UserDetail is the full profile returned by /users/{login}. Nullable API
// fields decode to empty strings.
type UserDetail struct {
	Login       string `json:"login"        yaml:"login"`
	Name        string `json:"name"         yaml:"name,omitempty"`
	AvatarURL   string `json:"avatar_url"   yaml:"avatar_url"`
	HTMLURL     string `json:"html_url"     yaml:"html_url,omitempty"`
	Company     string `json:"company"      yaml:"company,omitempty"`
	Blog        string `json:"blog"         yaml:"blog,omitempty"`
	Location    string `json:"location"     yaml:"location,omitempty"`
	Email       string `json:"email"        yaml:"email,omitempty"`
	Bio         string `json:"bio"          yaml:"bio,omitempty"`
	PublicRepos int    `json:"public_repos" yaml:"public_repos"`
	Followers   int    `json:"followers"    yaml:"followers"`
	Following   int    `json:"following"    yaml:"following"`
}

// DisplayName returns the full name when set, otherwise the login.
func (d UserDetail) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Login
}

// Repository is an entry from /users/{login}/repos.
type Repository struct {
	ID              int64     `json:"id"               yaml:"id"`
	Name            string    `json:"name"             yaml:"name"`
	FullName        string    `json:"full_name"        yaml:"full_name,omitempty"`
	Description     string    `json:"description"      yaml:"description,omitempty"`
	Language        string    `json:"language"         yaml:"language,omitempty"`
	HTMLURL         string    `json:"html_url"         yaml:"html_url"`
	StargazersCount int       `json:"stargazers_count" yaml:"stars"`
	ForksCount      int       `json:"forks_count"      yaml:"forks"`
	Fork            bool      `json:"fork"             yaml:"fork"`
	UpdatedAt       time.Time `json:"updated_at"       yaml:"updated_at,omitempty"`
}

type errorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}
