// Package langcolor maps repository languages to GitHub's display colours.
package langcolor

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"

	"golang.org/x/text/cases"
)

// DefaultColor is returned for unknown or empty languages.
const DefaultColor = "#8b949e"

//go:embed colors.json
var builtin []byte

var hexPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Palette is an immutable language to hex colour lookup, safe for concurrent use.
type Palette struct {
	exact  map[string]string
	folded map[string]string
}

// New returns the built-in palette.
func New() *Palette {
	p, err := FromJSON(builtin)
	if err != nil {
		panic(fmt.Sprintf("langcolor: built-in palette: %v", err))
	}
	return p
}

// FromJSON builds a palette from a {"Language": "#rrggbb"} object.
func FromJSON(data []byte) (*Palette, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse palette: %w", err)
	}

	p := &Palette{
		exact:  make(map[string]string, len(raw)),
		folded: make(map[string]string, len(raw)),
	}
	fold := cases.Fold()

	// Sorted so that keys differing only in case resolve the same way every run.
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		hex := raw[name]
		if !hexPattern.MatchString(hex) {
			return nil, fmt.Errorf("parse palette: %s: invalid colour %q", name, hex)
		}
		p.exact[name] = hex
		key := fold.String(name)
		if _, ok := p.folded[key]; !ok {
			p.folded[key] = hex
		}
	}
	return p, nil
}

// Color returns the colour for language: an exact match first, then a
// case-insensitive one, else DefaultColor.
func (p *Palette) Color(language string) string {
	if p == nil || language == "" {
		return DefaultColor
	}
	if hex, ok := p.exact[language]; ok {
		return hex
	}
	if hex, ok := p.folded[cases.Fold().String(language)]; ok {
		return hex
	}
	return DefaultColor
}

// Len reports the number of languages in the palette.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.exact)
}
