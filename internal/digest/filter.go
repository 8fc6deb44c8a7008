package digest

import (
	"strings"
	"time"

	"github.com/opengovhq/oryx/internal/feed"
	"github.com/opengovhq/oryx/internal/registry"
)

// recent reports whether the item carries a timestamp strictly after the
// cutoff. Undated items never pass; an item exactly at the cutoff is stale.
func recent(it feed.Item, cutoff time.Time) bool {
	return it.Published != nil && it.Published.After(cutoff)
}

// itemText is the blob scanned for theme triggers and country mentions.
func itemText(it feed.Item) string {
	return it.Title + " " + it.Summary
}

// domainIn reports whether dom equals or is a subdomain of any entry in set.
func domainIn(dom string, set []string) bool {
	for _, s := range set {
		if dom == s || strings.HasSuffix(dom, "."+s) {
			return true
		}
	}
	return false
}

func hasLocalTLD(dom string, c registry.Country) bool {
	for _, tld := range c.TLDs {
		if strings.HasSuffix(dom, tld) {
			return true
		}
	}
	return false
}

func looksGovernmental(dom string, reg *registry.Registry) bool {
	for _, hint := range reg.GovHints {
		if strings.Contains(dom, hint) {
			return true
		}
	}
	return false
}

// gate applies the tiered domain decision in strict priority order; the
// first matching rule wins.
//
//	a. explicit verified/media set         -> accept, tier per set
//	b. local TLD + country mention         -> media
//	c. international allow-list + mention  -> media
//	d. government-looking host + mention   -> verified
//	e. reject
func gate(it feed.Item, c registry.Country, reg *registry.Registry) (Trust, bool) {
	dom := it.Domain
	if dom == "" {
		return "", false
	}
	if domainIn(dom, c.Verified) {
		return TrustVerified, true
	}
	if domainIn(dom, c.Media) {
		return TrustMedia, true
	}
	mentions := c.MentionsCountry(itemText(it))
	if hasLocalTLD(dom, c) && mentions {
		return TrustMedia, true
	}
	if domainIn(dom, reg.IntlDomains) && mentions {
		return TrustMedia, true
	}
	if looksGovernmental(dom, reg) && mentions {
		return TrustVerified, true
	}
	return "", false
}

// relaxedGate is the post-fetch rule of the last fallback stage: the query
// already named the country, so acceptance only needs a trusted-looking
// domain (explicit set, local TLD, or the international allow-list).
func relaxedGate(it feed.Item, c registry.Country, reg *registry.Registry) (Trust, bool) {
	dom := it.Domain
	if dom == "" {
		return "", false
	}
	if domainIn(dom, c.Verified) {
		return TrustVerified, true
	}
	if domainIn(dom, c.Media) {
		return TrustMedia, true
	}
	if hasLocalTLD(dom, c) || domainIn(dom, reg.IntlDomains) {
		return TrustMedia, true
	}
	return "", false
}

// classify applies recency, the mandatory theme gate, and the given domain
// gate to raw items, producing accepted items for the country pool.
func classify(
	items []feed.Item,
	c registry.Country,
	reg *registry.Registry,
	themes []registry.Theme,
	cutoff time.Time,
	gateFn func(feed.Item, registry.Country, *registry.Registry) (Trust, bool),
) []Item {
	var out []Item
	for _, it := range items {
		if !recent(it, cutoff) {
			continue
		}
		matched := registry.MatchThemes(itemText(it), themes)
		if len(matched) == 0 {
			continue
		}
		tier, ok := gateFn(it, c, reg)
		if !ok {
			continue
		}
		out = append(out, Item{
			Item:    it,
			Themes:  matched,
			Trust:   tier,
			Country: c.Name,
		})
	}
	return out
}
