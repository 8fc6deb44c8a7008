// Package registry holds the static source configuration: which countries are
// covered, which domains are trusted for each of them, and which theme
// keywords make an item relevant. The registry is built once at startup and
// passed into the pipeline; nothing in here mutates after Load.
package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Locale identifies the Google News edition used for a query.
type Locale struct {
	Lang string `yaml:"lang"` // hl parameter, e.g. "de"
	Geo  string `yaml:"geo"`  // gl parameter, e.g. "AT"
	Ceid string `yaml:"ceid"` // edition id, e.g. "AT:de"
}

// International is the broad fallback edition used to widen coverage when the
// local-language edition comes back thin.
var International = Locale{Lang: "en", Geo: "US", Ceid: "US:en"}

// Country describes one covered country: how it is named in headlines, which
// edition to query, and which domains count as verified or reputable media.
type Country struct {
	Name     string   `yaml:"name"`
	AltNames []string `yaml:"alt_names"`
	Locale   Locale   `yaml:"locale"`
	TLDs     []string `yaml:"tlds"`
	Verified []string `yaml:"verified_sites"`
	Media    []string `yaml:"media_sites"`
}

// HasSites reports whether targeted (site-scoped) queries are possible.
func (c Country) HasSites() bool {
	return len(c.Verified) > 0 || len(c.Media) > 0
}

// Names returns the canonical name plus all alternates, canonical first.
func (c Country) Names() []string {
	out := make([]string, 0, len(c.AltNames)+1)
	out = append(out, c.Name)
	for _, n := range c.AltNames {
		if n != c.Name {
			out = append(out, n)
		}
	}
	return out
}

// MentionsCountry reports whether text cites the country by any known name.
func (c Country) MentionsCountry(text string) bool {
	lower := strings.ToLower(text)
	for _, n := range c.Names() {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// Theme is one topic category with its trigger phrases. Matching is
// case-insensitive substring search over title+summary.
type Theme struct {
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers"`
}

// Registry is the immutable source configuration for a run.
type Registry struct {
	Countries []Country `yaml:"countries"`
	Themes    []Theme   `yaml:"themes"`

	// IntlDomains are international/multilateral organisations whose items are
	// accepted as media when they mention the country.
	IntlDomains []string `yaml:"intl_domains"`

	// GovHints are substrings that make an unknown domain look like a
	// government or parliament host.
	GovHints []string `yaml:"gov_hints"`

	// RegionalQueries are cross-country query subjects for the regional block.
	RegionalQueries []string `yaml:"regional_queries"`
}

// Country looks a country up by canonical name.
func (r *Registry) Country(name string) (Country, bool) {
	for _, c := range r.Countries {
		if c.Name == name {
			return c, true
		}
	}
	return Country{}, false
}

// ThemesNamed returns the subset of themes with the given names, preserving
// registry order. An empty selection means all themes.
func (r *Registry) ThemesNamed(names []string) []Theme {
	if len(names) == 0 {
		return r.Themes
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToLower(strings.TrimSpace(n))] = true
	}
	var out []Theme
	for _, th := range r.Themes {
		if want[strings.ToLower(th.Name)] {
			out = append(out, th)
		}
	}
	return out
}

// MatchThemes returns the names of every theme with at least one trigger
// phrase present in text. Empty result means the item is off-topic.
func MatchThemes(text string, themes []Theme) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, th := range themes {
		for _, trig := range th.Triggers {
			if strings.Contains(lower, strings.ToLower(trig)) {
				matched = append(matched, th.Name)
				break
			}
		}
	}
	return matched
}

// Load returns the built-in registry, overridden by the YAML file at path if
// it exists. An unreadable or malformed file is not fatal: the defaults are
// used and the error is returned for logging.
func Load(path string) (*Registry, error) {
	reg := Default()
	if path == "" {
		return reg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return reg, nil
		}
		return reg, fmt.Errorf("read registry %s: %w", path, err)
	}
	var override Registry
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return reg, fmt.Errorf("parse registry %s: %w", path, err)
	}
	if len(override.Countries) > 0 {
		reg.Countries = override.Countries
	}
	if len(override.Themes) > 0 {
		reg.Themes = override.Themes
	}
	if len(override.IntlDomains) > 0 {
		reg.IntlDomains = override.IntlDomains
	}
	if len(override.GovHints) > 0 {
		reg.GovHints = override.GovHints
	}
	if len(override.RegionalQueries) > 0 {
		reg.RegionalQueries = override.RegionalQueries
	}
	return reg, nil
}
