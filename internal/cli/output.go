package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/five82/gitlook/internal/github"
	"github.com/five82/gitlook/internal/profile"
)

// outputFormat selects how records are printed.
type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

const tabPadding = 2

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", formatTable:
		return formatTable, nil
	case formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

func writeStructured(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}

// writeUsers prints users in the given format.
func writeUsers(w io.Writer, format outputFormat, users []github.User) error {
	if format != formatTable {
		if users == nil {
			users = []github.User{}
		}
		return writeStructured(w, format, users)
	}

	if len(users) == 0 {
		_, err := fmt.Fprintln(w, "No users found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ID\tLOGIN\tPROFILE")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Login, u.HTMLURL)
	}
	return tw.Flush()
}

// profileDocument is the structured form of a profile.
type profileDocument struct {
	User         github.UserDetail   `json:"user"         yaml:"user"`
	TotalStars   int                 `json:"total_stars"  yaml:"total_stars"`
	ForksHidden  int                 `json:"forks_hidden" yaml:"forks_hidden"`
	Repositories []github.Repository `json:"repositories" yaml:"repositories"`
}

// writeProfile prints a profile in the given format.
func writeProfile(w io.Writer, format outputFormat, p profile.Profile) error {
	if format != formatTable {
		repos := p.Repositories
		if repos == nil {
			repos = []github.Repository{}
		}
		return writeStructured(w, format, profileDocument{
			User:         p.User,
			TotalStars:   p.TotalStars(),
			ForksHidden:  p.Forks,
			Repositories: repos,
		})
	}

	u := p.User
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", u.DisplayName())
	fmt.Fprintf(tw, "Login:\t%s\n", u.Login)
	for _, field := range []struct{ label, value string }{
		{"Location", u.Location},
		{"Company", u.Company},
		{"Blog", u.Blog},
		{"Email", u.Email},
		{"Bio", u.Bio},
	} {
		if v := strings.TrimSpace(field.value); v != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", field.label, v)
		}
	}
	fmt.Fprintf(tw, "Followers:\t%d\n", u.Followers)
	fmt.Fprintf(tw, "Following:\t%d\n", u.Following)
	fmt.Fprintf(tw, "Public repos:\t%d\n", u.PublicRepos)
	fmt.Fprintf(tw, "Stars:\t%d\n", p.TotalStars())
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if len(p.Repositories) == 0 {
		_, err := fmt.Fprintln(w, "No public repositories.")
		return err
	}
	tw = tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "REPOSITORY\tSTARS\tLANGUAGE\tDESCRIPTION")
	for _, r := range p.Repositories {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Name, r.StargazersCount, dash(r.Language), truncate(r.Description, 60))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if p.Forks > 0 {
		_, err := fmt.Fprintf(w, "\n%d forked repositories hidden.\n", p.Forks)
		return err
	}
	return nil
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
