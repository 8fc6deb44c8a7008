package digest

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/opengovhq/oryx/internal/feed"
	"github.com/opengovhq/oryx/internal/metrics"
	"github.com/opengovhq/oryx/internal/query"
	"github.com/opengovhq/oryx/internal/registry"
)

// Fetcher runs one search against the feed source. feed.Client implements
// it; tests substitute a frozen fixture.
type Fetcher interface {
	Fetch(ctx context.Context, q string, loc registry.Locale) ([]feed.Item, error)
}

// Options tune one pipeline run.
type Options struct {
	WindowHours     int
	VerifiedOnly    bool     // when verified items exist, suppress media ones
	Themes          []string // restrict to these theme names; empty = all
	PerCountryCap   int      // display cap per block
	IncludeRegional bool

	// Now is injectable so tests can pin the window; defaults to time.Now.
	Now func() time.Time
}

// Generator owns one configured pipeline. Construct with New, then call
// Generate once per run.
type Generator struct {
	reg     *registry.Registry
	fetcher Fetcher
	opts    Options
	log     zerolog.Logger
	stats   *metrics.Metrics
}

func New(reg *registry.Registry, fetcher Fetcher, opts Options, log zerolog.Logger, stats *metrics.Metrics) *Generator {
	if opts.WindowHours <= 0 {
		opts.WindowHours = 24
	}
	if opts.PerCountryCap <= 0 {
		opts.PerCountryCap = 4
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if stats == nil {
		stats = metrics.New()
	}
	return &Generator{
		reg:     reg,
		fetcher: fetcher,
		opts:    opts,
		log:     log.With().Str("component", "digest").Logger(),
		stats:   stats,
	}
}

// Generate runs the pipeline for the given countries, in the given order.
// The order is part of the contract: cross-country de-duplication is
// first-seen-wins, so an item surfacing for two countries lands in the one
// processed earlier. One country failing never aborts the others.
func (g *Generator) Generate(ctx context.Context, countries []string) (*RunDigest, error) {
	start := g.opts.Now()
	defer func() {
		g.stats.RecordRun(time.Since(start))
	}()

	cutoff := start.UTC().Add(-time.Duration(g.opts.WindowHours) * time.Hour)
	themes := g.reg.ThemesNamed(g.opts.Themes)
	seen := make(map[string]struct{})

	out := &RunDigest{
		GeneratedAt: start.UTC(),
		WindowHours: g.opts.WindowHours,
	}

	for _, name := range countries {
		c, ok := g.reg.Country(name)
		if !ok {
			g.log.Warn().Str("country", name).Msg("country not in registry, skipped")
			continue
		}
		pool := g.collectCountry(ctx, c, themes, cutoff)
		if g.opts.VerifiedOnly {
			// Select before deduplicating: a media item suppressed here was
			// never attributed to this country and must not claim its key
			// against later countries.
			pool = preferVerified(pool)
		}
		pool = dedupe(pool, seen)
		block := buildBlock(c.Name, pool, g.opts.PerCountryCap)
		g.stats.AddAccepted(block.Total)
		out.Countries = append(out.Countries, block)
		g.log.Info().Str("country", c.Name).Int("items", block.Total).Msg("country collected")
	}

	if g.opts.IncludeRegional && len(g.reg.RegionalQueries) > 0 {
		block := g.collectRegional(ctx, themes, cutoff, seen)
		out.Regional = &block
	}

	return out, nil
}

// collectCountry runs the staged collection for one country:
//
//  1. targeted site-scoped queries (or one generic query when the country
//     has no curated domains), full domain gate;
//  2. if empty, verified-site queries without theme terms, full gate;
//  3. if still empty, name-only queries with the relaxed post-fetch gate.
//
// Later stages run only when the prior stage accepted nothing.
func (g *Generator) collectCountry(ctx context.Context, c registry.Country, themes []registry.Theme, cutoff time.Time) []Item {
	var qs []query.Query
	if c.HasSites() {
		qs = query.Targeted(c, themes)
	} else {
		qs = query.Generic(c, themes)
	}
	pool := classify(g.fetchAll(ctx, qs, c.Locale), c, g.reg, themes, cutoff, gate)
	if len(pool) > 0 {
		return pool
	}

	if len(c.Verified) > 0 {
		g.stats.AddFallback()
		g.log.Debug().Str("country", c.Name).Msg("targeted tier empty, trying site-only queries")
		pool = classify(g.fetchAll(ctx, query.SiteOnly(c), c.Locale), c, g.reg, themes, cutoff, gate)
		if len(pool) > 0 {
			return pool
		}
	}

	g.stats.AddFallback()
	g.log.Debug().Str("country", c.Name).Msg("site tiers empty, trying name-only queries")
	return classify(g.fetchAll(ctx, query.NamesOnly(c), c.Locale), c, g.reg, themes, cutoff, relaxedGate)
}

// fetchAll runs each query against the local edition and the broad
// international one. A failed fetch degrades to zero items for that query.
func (g *Generator) fetchAll(ctx context.Context, qs []query.Query, local registry.Locale) []feed.Item {
	var all []feed.Item
	locales := []registry.Locale{local}
	if local != registry.International {
		locales = append(locales, registry.International)
	}
	for _, q := range qs {
		for _, loc := range locales {
			items, err := g.fetcher.Fetch(ctx, q.Text, loc)
			if err != nil {
				g.stats.AddFetchError()
				g.log.Warn().Err(err).Str("tier", string(q.Tier)).Msg("fetch failed, continuing")
				continue
			}
			g.stats.AddFetched(len(items))
			all = append(all, items...)
		}
	}
	return all
}

// collectRegional builds the cross-cutting block from the fixed multi-country
// queries. Items are not attributed to a country, so only the recency and
// theme gates apply; hosts that look governmental still earn the verified
// badge.
func (g *Generator) collectRegional(ctx context.Context, themes []registry.Theme, cutoff time.Time, seen map[string]struct{}) Block {
	var pool []Item
	for _, subject := range g.reg.RegionalQueries {
		q := query.Regional(subject, themes)
		items, err := g.fetcher.Fetch(ctx, q.Text, registry.International)
		if err != nil {
			g.stats.AddFetchError()
			g.log.Warn().Err(err).Str("subject", subject).Msg("regional fetch failed, continuing")
			continue
		}
		g.stats.AddFetched(len(items))
		for _, it := range items {
			if !recent(it, cutoff) {
				continue
			}
			matched := registry.MatchThemes(itemText(it), themes)
			if len(matched) == 0 {
				continue
			}
			tier := TrustMedia
			if looksGovernmental(it.Domain, g.reg) {
				tier = TrustVerified
			}
			pool = append(pool, Item{Item: it, Themes: matched, Trust: tier})
		}
	}
	pool = dedupe(pool, seen)
	block := buildBlock("Subregional / International", pool, g.opts.PerCountryCap)
	g.stats.AddAccepted(block.Total)
	return block
}

// preferVerified drops media items when any verified item survived;
// otherwise the media pool stands as the graceful fallback.
func preferVerified(pool []Item) []Item {
	var verified []Item
	for _, it := range pool {
		if it.Trust == TrustVerified {
			verified = append(verified, it)
		}
	}
	if len(verified) == 0 {
		return pool
	}
	return verified
}
