// Package digest runs the aggregation pipeline: query, fetch, filter with
// tiered fallback, de-duplicate across the run, rank, and assemble one
// RunDigest per invocation.
package digest

import (
	"time"

	"github.com/opengovhq/oryx/internal/feed"
)

// Trust is the source tier of an accepted item.
type Trust string

const (
	// TrustVerified marks official government/parliament/institutional sources.
	TrustVerified Trust = "verified"
	// TrustMedia marks reputable news outlets; always ranked below verified.
	TrustMedia Trust = "media"
)

// Item is a feed entry that passed the recency, theme, and domain gates.
// Themes is never empty.
type Item struct {
	feed.Item
	Themes  []string
	Trust   Trust
	Country string // grouping only; empty in the regional block
}

// Block is the per-country (or regional) section of a digest: the ranked,
// capped display list plus metrics computed over the full deduplicated pool.
type Block struct {
	Name          string
	Items         []Item // ranked, truncated to the display cap
	Total         int    // full pool size before truncation
	VerifiedCount int
	MediaCount    int
	TopDomains    []string
	TopThemes     []string
}

// RunDigest is the transient output artifact of one pipeline run.
type RunDigest struct {
	GeneratedAt time.Time
	WindowHours int
	Countries   []Block
	Regional    *Block
}

// Header is the digest window label.
func (d *RunDigest) Header() string {
	return headerLabel(d.WindowHours)
}
