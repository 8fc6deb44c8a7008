package digest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengovhq/oryx/internal/feed"
	"github.com/opengovhq/oryx/internal/registry"
)

var frozenNow = time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

func testRegistry() *registry.Registry {
	return &registry.Registry{
		Countries: []registry.Country{
			{
				Name:     "Alphaland",
				Locale:   registry.Locale{Lang: "en", Geo: "AL", Ceid: "AL:en"},
				TLDs:     []string{".al"},
				Verified: []string{"gov.alpha"},
				Media:    []string{"news.alpha"},
			},
			{
				Name:     "Betaland",
				Locale:   registry.Locale{Lang: "en", Geo: "BL", Ceid: "BL:en"},
				TLDs:     []string{".bl"},
				Verified: []string{"gov.beta"},
			},
			{
				// No curated domains: starts at the generic tier.
				Name:   "Gammaland",
				Locale: registry.Locale{Lang: "en", Geo: "GL", Ceid: "GL:en"},
				TLDs:   []string{".gl"},
			},
		},
		Themes: []registry.Theme{
			{Name: "Open Government", Triggers: []string{"transparency"}},
			{Name: "Anti-Corruption", Triggers: []string{"anti-corruption"}},
		},
		IntlDomains:     []string{"worldbank.org"},
		GovHints:        []string{"gov."},
		RegionalQueries: []string{"Testregion"},
	}
}

// fakeFetcher serves frozen fixtures. Exact-text entries win over substring
// entries; at most one entry should match any query the pipeline builds.
type fakeFetcher struct {
	exact    map[string][]feed.Item
	contains map[string][]feed.Item
	failWith map[string]error

	queries []string
}

func (f *fakeFetcher) Fetch(_ context.Context, q string, loc registry.Locale) ([]feed.Item, error) {
	f.queries = append(f.queries, loc.Ceid+" "+q)
	for sub, err := range f.failWith {
		if strings.Contains(q, sub) {
			return nil, err
		}
	}
	if items, ok := f.exact[q]; ok {
		return items, nil
	}
	for sub, items := range f.contains {
		if strings.Contains(q, sub) {
			return items, nil
		}
	}
	return nil, nil
}

func fresh(link, domain, title string, age time.Duration) feed.Item {
	t := frozenNow.Add(-age)
	return feed.Item{Title: title, Link: link, Domain: domain, Published: &t}
}

func newTestGenerator(f Fetcher, opts Options) *Generator {
	opts.Now = func() time.Time { return frozenNow }
	return New(testRegistry(), f, opts, zerolog.Nop(), nil)
}

func TestGenerateVerifiedItemRankedFirst(t *testing.T) {
	f := &fakeFetcher{contains: map[string][]feed.Item{
		"site:gov.alpha":  {fresh("https://gov.alpha/one", "gov.alpha", "New transparency portal", 2*time.Hour)},
		"site:news.alpha": {fresh("https://news.alpha/two", "news.alpha", "transparency row in parliament", time.Hour)},
	}}
	gen := newTestGenerator(f, Options{})

	d, err := gen.Generate(context.Background(), []string{"Alphaland"})
	require.NoError(t, err)
	require.Len(t, d.Countries, 1)

	b := d.Countries[0]
	assert.Equal(t, "Alphaland", b.Name)
	require.Equal(t, 2, b.Total)
	// The media item is newer, the verified one still ranks first.
	assert.Equal(t, TrustVerified, b.Items[0].Trust)
	assert.Equal(t, "https://gov.alpha/one", b.Items[0].Link)
	assert.Equal(t, TrustMedia, b.Items[1].Trust)
}

func TestGenerateVerifiedOnlySuppressesMedia(t *testing.T) {
	f := &fakeFetcher{contains: map[string][]feed.Item{
		"site:gov.alpha":  {fresh("https://gov.alpha/one", "gov.alpha", "transparency portal", 2*time.Hour)},
		"site:news.alpha": {fresh("https://news.alpha/two", "news.alpha", "transparency row", time.Hour)},
	}}
	gen := newTestGenerator(f, Options{VerifiedOnly: true})

	d, err := gen.Generate(context.Background(), []string{"Alphaland"})
	require.NoError(t, err)
	b := d.Countries[0]
	assert.Equal(t, 1, b.Total)
	assert.Equal(t, TrustVerified, b.Items[0].Trust)
}

func TestGenerateVerifiedOnlyKeepsMediaWhenNothingVerified(t *testing.T) {
	f := &fakeFetcher{contains: map[string][]feed.Item{
		"site:news.alpha": {fresh("https://news.alpha/two", "news.alpha", "transparency row", time.Hour)},
	}}
	gen := newTestGenerator(f, Options{VerifiedOnly: true})

	d, err := gen.Generate(context.Background(), []string{"Alphaland"})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Countries[0].Total)
	assert.Equal(t, TrustMedia, d.Countries[0].Items[0].Trust)
}

func TestGenerateVerifiedOnlySuppressionReleasesStoryToLaterCountry(t *testing.T) {
	// A wire outlet trusted by both countries syndicates one story. The
	// first country has its own verified item, so the toggle suppresses the
	// wire story there; it was never attributed to that block and must still
	// surface for the second country, which has nothing else.
	reg := &registry.Registry{
		Countries: []registry.Country{
			{
				Name:     "Alphaland",
				Locale:   registry.Locale{Lang: "en", Geo: "AL", Ceid: "AL:en"},
				Verified: []string{"gov.alpha"},
				Media:    []string{"wire.example"},
			},
			{
				Name:   "Betaland",
				Locale: registry.Locale{Lang: "en", Geo: "BL", Ceid: "BL:en"},
				Media:  []string{"wire.example"},
			},
		},
		Themes: []registry.Theme{{Name: "Open Government", Triggers: []string{"transparency"}}},
	}
	shared := fresh("https://wire.example/story", "wire.example", "transparency pact signed", 2*time.Hour)
	f := &fakeFetcher{contains: map[string][]feed.Item{
		"site:gov.alpha":    {fresh("https://gov.alpha/own", "gov.alpha", "transparency portal", time.Hour)},
		"site:wire.example": {shared},
	}}
	gen := New(reg, f, Options{VerifiedOnly: true, Now: func() time.Time { return frozenNow }}, zerolog.Nop(), nil)

	d, err := gen.Generate(context.Background(), []string{"Alphaland", "Betaland"})
	require.NoError(t, err)
	require.Len(t, d.Countries, 2)

	alpha, beta := d.Countries[0], d.Countries[1]
	require.Equal(t, 1, alpha.Total)
	assert.Equal(t, TrustVerified, alpha.Items[0].Trust)

	require.Equal(t, 1, beta.Total, "story never attributed to Alphaland must not be blocked for Betaland")
	assert.Equal(t, "https://wire.example/story", beta.Items[0].Link)
	assert.Equal(t, TrustMedia, beta.Items[0].Trust)
}

func TestGenerateCrossCountryDedup(t *testing.T) {
	shared := "https://worldstory.example/shared"
	f := &fakeFetcher{contains: map[string][]feed.Item{
		"site:gov.alpha": {fresh(shared, "gov.alpha", "transparency summit", 2*time.Hour)},
		"site:gov.beta":  {fresh(shared, "gov.beta", "transparency summit", 2*time.Hour)},
	}}
	gen := newTestGenerator(f, Options{})

	d, err := gen.Generate(context.Background(), []string{"Alphaland", "Betaland"})
	require.NoError(t, err)
	require.Len(t, d.Countries, 2)

	assert.Equal(t, 1, d.Countries[0].Total, "first-processed country keeps the story")
	assert.Equal(t, 0, d.Countries[1].Total, "later country may not reclaim it")
	assert.Equal(t, "Betaland", d.Countries[1].Name, "empty block still present")
}

func TestGenerateFallbackToSiteOnlyQueries(t *testing.T) {
	// No response for the targeted tier; the bare site query finds news.
	f := &fakeFetcher{exact: map[string][]feed.Item{
		"site:gov.beta": {fresh("https://gov.beta/law", "gov.beta", "law on transparency published", 3*time.Hour)},
	}}
	gen := newTestGenerator(f, Options{})

	d, err := gen.Generate(context.Background(), []string{"Betaland"})
	require.NoError(t, err)
	b := d.Countries[0]
	require.Equal(t, 1, b.Total)
	assert.Equal(t, TrustVerified, b.Items[0].Trust)

	// The targeted tier was tried first.
	require.NotEmpty(t, f.queries)
	assert.Contains(t, f.queries[0], "site:gov.beta")
	assert.Contains(t, f.queries[0], `"Betaland"`)
}

func TestGenerateFallbackToNameOnlyQueries(t *testing.T) {
	// Nothing on the site tiers; the name-only query surfaces a local-TLD
	// story that still must pass the theme gate.
	f := &fakeFetcher{exact: map[string][]feed.Item{
		`("Betaland")`: {
			fresh("https://daily.bl/story", "daily.bl", "transparency reforms continue", 4*time.Hour),
			fresh("https://daily.bl/noise", "daily.bl", "football cup final", 2*time.Hour),
			fresh("https://elsewhere.com/story", "elsewhere.com", "transparency reforms", time.Hour),
		},
	}}
	gen := newTestGenerator(f, Options{})

	d, err := gen.Generate(context.Background(), []string{"Betaland"})
	require.NoError(t, err)
	b := d.Countries[0]
	require.Equal(t, 1, b.Total, "only the themed local-TLD item survives")
	assert.Equal(t, "https://daily.bl/story", b.Items[0].Link)
	assert.Equal(t, TrustMedia, b.Items[0].Trust)
}

func TestGenerateFallbackStagesAreSequential(t *testing.T) {
	f := &fakeFetcher{}
	gen := newTestGenerator(f, Options{})

	d, err := gen.Generate(context.Background(), []string{"Betaland"})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Countries[0].Total)

	// Local + international editions for each stage: targeted, site-only,
	// then name-only, in that order.
	var texts []string
	for _, q := range f.queries {
		texts = append(texts, q[strings.Index(q, " ")+1:])
	}
	require.Len(t, texts, 6)
	assert.Contains(t, texts[0], "site:gov.beta")
	assert.Contains(t, texts[0], "transparency")
	assert.Equal(t, "site:gov.beta", texts[2])
	assert.Equal(t, `("Betaland")`, texts[4])
}

func TestGenerateGenericTierForCountryWithoutSites(t *testing.T) {
	f := &fakeFetcher{contains: map[string][]feed.Item{
		"Gammaland": {fresh("https://daily.gl/story", "daily.gl", "Gammaland transparency push", 2*time.Hour)},
	}}
	gen := newTestGenerator(f, Options{})

	d, err := gen.Generate(context.Background(), []string{"Gammaland"})
	require.NoError(t, err)
	b := d.Countries[0]
	require.Equal(t, 1, b.Total)
	assert.Equal(t, TrustMedia, b.Items[0].Trust)

	// First query is the generic tier: themes + names, no site restriction.
	require.NotEmpty(t, f.queries)
	assert.NotContains(t, f.queries[0], "site:")
	assert.Contains(t, f.queries[0], `"Gammaland"`)
	assert.Contains(t, f.queries[0], "transparency")
}

func TestGenerateDiscardsStaleAndUndated(t *testing.T) {
	undated := feed.Item{Title: "transparency but undated", Link: "https://gov.alpha/u", Domain: "gov.alpha"}
	f := &fakeFetcher{contains: map[string][]feed.Item{
		"site:gov.alpha": {
			fresh("https://gov.alpha/fresh", "gov.alpha", "transparency update", 2*time.Hour),
			fresh("https://gov.alpha/stale", "gov.alpha", "transparency update, old", 25*time.Hour),
			fresh("https://gov.alpha/edge", "gov.alpha", "transparency update, boundary", 24*time.Hour),
			undated,
		},
	}}
	gen := newTestGenerator(f, Options{WindowHours: 24})

	d, err := gen.Generate(context.Background(), []string{"Alphaland"})
	require.NoError(t, err)
	b := d.Countries[0]
	require.Equal(t, 1, b.Total, "stale, boundary-exact, and undated items are dropped")
	assert.Equal(t, "https://gov.alpha/fresh", b.Items[0].Link)
}

func TestGenerateIsolatesCountryFetchFailures(t *testing.T) {
	f := &fakeFetcher{
		failWith: map[string]error{"Alphaland": errors.New("upstream down")},
		contains: map[string][]feed.Item{
			"site:gov.beta": {fresh("https://gov.beta/ok", "gov.beta", "transparency bill", time.Hour)},
		},
	}
	gen := newTestGenerator(f, Options{})

	d, err := gen.Generate(context.Background(), []string{"Alphaland", "Betaland"})
	require.NoError(t, err, "a failing country never aborts the run")
	require.Len(t, d.Countries, 2)
	assert.Equal(t, 0, d.Countries[0].Total)
	assert.Equal(t, 1, d.Countries[1].Total)
}

func TestGenerateSkipsUnknownCountry(t *testing.T) {
	gen := newTestGenerator(&fakeFetcher{}, Options{})
	d, err := gen.Generate(context.Background(), []string{"Atlantis"})
	require.NoError(t, err)
	assert.Empty(t, d.Countries)
}

func TestGenerateRegionalBlock(t *testing.T) {
	shared := "https://gov.alpha/shared"
	f := &fakeFetcher{contains: map[string][]feed.Item{
		"site:gov.alpha": {fresh(shared, "gov.alpha", "transparency portal", 2*time.Hour)},
		"Testregion": {
			fresh(shared, "gov.alpha", "transparency portal", 2*time.Hour),
			fresh("https://gov.testregion/r", "gov.testregion", "regional transparency pact", 3*time.Hour),
			fresh("https://blog.example/r", "blog.example", "no trigger words here", 3*time.Hour),
		},
	}}
	gen := newTestGenerator(f, Options{IncludeRegional: true})

	d, err := gen.Generate(context.Background(), []string{"Alphaland"})
	require.NoError(t, err)
	require.NotNil(t, d.Regional)

	// The story already claimed by Alphaland stays out of the regional
	// block; the off-topic item fails the theme gate.
	require.Equal(t, 1, d.Regional.Total)
	assert.Equal(t, "https://gov.testregion/r", d.Regional.Items[0].Link)
	assert.Equal(t, TrustVerified, d.Regional.Items[0].Trust, "governmental-looking host earns the badge")
}

func TestGenerateIdempotentOnFrozenFixture(t *testing.T) {
	build := func() *RunDigest {
		f := &fakeFetcher{contains: map[string][]feed.Item{
			"site:gov.alpha":  {fresh("https://gov.alpha/a", "gov.alpha", "transparency portal", 2*time.Hour)},
			"site:news.alpha": {fresh("https://news.alpha/b", "news.alpha", "anti-corruption raid", time.Hour)},
			"site:gov.beta":   {fresh("https://gov.beta/c", "gov.beta", "transparency bill", 3*time.Hour)},
			"Testregion":      {fresh("https://gov.testregion/r", "gov.testregion", "regional transparency pact", 4*time.Hour)},
		}}
		gen := newTestGenerator(f, Options{IncludeRegional: true})
		d, err := gen.Generate(context.Background(), []string{"Alphaland", "Betaland"})
		require.NoError(t, err)
		return d
	}

	first, err := json.Marshal(build())
	require.NoError(t, err)
	second, err := json.Marshal(build())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestGenerateWindowHeader(t *testing.T) {
	gen := newTestGenerator(&fakeFetcher{}, Options{WindowHours: 48})
	d, err := gen.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Country updates (past 48h)", d.Header())
	assert.Equal(t, frozenNow, d.GeneratedAt)
}
