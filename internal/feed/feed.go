// Package feed retrieves and normalizes Google News RSS search results.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/opengovhq/oryx/internal/registry"
)

const userAgent = "OryxNews/1.0"

// Item is one normalized feed entry.
type Item struct {
	Title     string
	Link      string
	Summary   string
	Published *time.Time // nil when the entry carries no usable date
	Domain    string     // source host, lowercased, without www.
}

// Key is the deduplication identity: the link, or title+domain when the
// entry has no link.
func (it Item) Key() string {
	if it.Link != "" {
		return it.Link
	}
	return it.Title + "|" + it.Domain
}

// Client fetches search feeds with a per-upstream politeness delay. Safe for
// sequential use; the pipeline issues fetches one at a time.
type Client struct {
	parser  *gofeed.Parser
	limiter *rate.Limiter
	log     zerolog.Logger

	// BaseURL points at the Google News RSS endpoint; tests override it.
	BaseURL string
}

// New builds a Client with the given per-fetch timeout and minimum delay
// between successive requests.
func New(timeout, delay time.Duration, log zerolog.Logger) *Client {
	p := gofeed.NewParser()
	p.UserAgent = userAgent
	p.Client = &http.Client{Timeout: timeout}
	return &Client{
		parser:  p,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		log:     log.With().Str("component", "feed").Logger(),
		BaseURL: "https://news.google.com/rss/search",
	}
}

// SearchURL renders the search feed URL for a query and edition.
func (c *Client) SearchURL(q string, loc registry.Locale) string {
	v := url.Values{}
	v.Set("q", q)
	v.Set("hl", loc.Lang)
	v.Set("gl", loc.Geo)
	v.Set("ceid", loc.Ceid)
	return c.BaseURL + "?" + v.Encode()
}

// Fetch runs one search and returns normalized items. Network and parse
// failures come back as an error; callers degrade them to an empty slice.
func (c *Client) Fetch(ctx context.Context, q string, loc registry.Locale) ([]Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	feedURL := c.SearchURL(q, loc)
	parsed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s/%s: %w", loc.Ceid, q, err)
	}
	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		items = append(items, normalize(entry))
	}
	c.log.Debug().Str("ceid", loc.Ceid).Str("query", q).Int("items", len(items)).Msg("feed fetched")
	return items, nil
}

func normalize(entry *gofeed.Item) Item {
	it := Item{
		Title:     strings.TrimSpace(entry.Title),
		Link:      strings.TrimSpace(entry.Link),
		Summary:   cleanSummary(entry.Description),
		Published: entryTime(entry),
	}
	it.Domain = domainOf(it.Link)
	if it.Domain == "news.google.com" {
		// Google News wraps article links in a redirect; the summary still
		// carries an anchor to the real source.
		if orig := firstAnchorHost(entry.Description); orig != "" {
			it.Domain = orig
		}
	}
	return it
}

func entryTime(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		t := entry.PublishedParsed.UTC()
		return &t
	}
	if entry.UpdatedParsed != nil {
		t := entry.UpdatedParsed.UTC()
		return &t
	}
	raw := entry.Published
	if raw == "" {
		raw = entry.Updated
	}
	if raw == "" {
		return nil
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func domainOf(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

// cleanSummary strips HTML markup from a feed description.
func cleanSummary(html string) string {
	html = strings.TrimSpace(html)
	if html == "" || !strings.Contains(html, "<") {
		return html
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}

func firstAnchorHost(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	href, ok := doc.Find("a[href]").First().Attr("href")
	if !ok {
		return ""
	}
	return domainOf(href)
}
