// Package query builds Google News search queries for one country and tier.
//
// A targeted query always conjoins three clauses: at least one theme term,
// at least one country-name variant, and exactly one site restriction. One
// query is built per domain rather than OR-ing domains together: the search
// grammar silently under-matches combined site: clauses.
package query

import (
	"fmt"
	"strings"

	"github.com/opengovhq/oryx/internal/registry"
)

// Tier selects how much of the full constraint set a query carries.
type Tier string

const (
	// TierTargeted scopes to a single trusted domain plus themes and names.
	TierTargeted Tier = "targeted"
	// TierSiteOnly drops the theme clause and keeps only the site
	// restriction (first fallback stage, verified sites only).
	TierSiteOnly Tier = "site-only"
	// TierNamesOnly keeps only country-name variants (second fallback stage).
	TierNamesOnly Tier = "names-only"
	// TierGeneric conjoins themes and names without any site restriction;
	// used for countries that have no curated domain lists.
	TierGeneric Tier = "generic"
)

// Query is one search to run against the feed source.
type Query struct {
	Text   string
	Tier   Tier
	Domain string // set for site-scoped tiers
}

// maxTriggersPerTheme bounds how many trigger phrases per theme go into the
// query text; matching after fetch still uses the full lexicon.
const maxTriggersPerTheme = 2

// Targeted returns one query per trusted domain, verified domains first.
// Empty when the country has no curated domain lists.
func Targeted(c registry.Country, themes []registry.Theme) []Query {
	topics := themeClause(themes)
	names := nameClause(c)
	var out []Query
	for _, dom := range append(append([]string{}, c.Verified...), c.Media...) {
		out = append(out, Query{
			Text:   fmt.Sprintf("(%s) (%s) (site:%s)", topics, names, dom),
			Tier:   TierTargeted,
			Domain: dom,
		})
	}
	return out
}

// SiteOnly returns one bare site query per verified domain.
func SiteOnly(c registry.Country) []Query {
	var out []Query
	for _, dom := range c.Verified {
		out = append(out, Query{
			Text:   fmt.Sprintf("site:%s", dom),
			Tier:   TierSiteOnly,
			Domain: dom,
		})
	}
	return out
}

// NamesOnly returns a single query over the country-name variants.
func NamesOnly(c registry.Country) []Query {
	return []Query{{
		Text: fmt.Sprintf("(%s)", nameClause(c)),
		Tier: TierNamesOnly,
	}}
}

// Generic returns a single theme+name query with no domain restriction.
func Generic(c registry.Country, themes []registry.Theme) []Query {
	return []Query{{
		Text: fmt.Sprintf("(%s) (%s)", themeClause(themes), nameClause(c)),
		Tier: TierGeneric,
	}}
}

// Regional builds a cross-country query for a subject such as a bloc or
// subregion; it follows the generic shape with the subject as the name.
func Regional(subject string, themes []registry.Theme) Query {
	return Query{
		Text: fmt.Sprintf("(%s) (%q)", themeClause(themes), subject),
		Tier: TierGeneric,
	}
}

func nameClause(c registry.Country) string {
	names := c.Names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, " OR ")
}

func themeClause(themes []registry.Theme) string {
	var terms []string
	for _, th := range themes {
		for i, trig := range th.Triggers {
			if i >= maxTriggersPerTheme {
				break
			}
			if strings.Contains(trig, " ") {
				terms = append(terms, fmt.Sprintf("%q", trig))
			} else {
				terms = append(terms, trig)
			}
		}
	}
	return strings.Join(terms, " OR ")
}
