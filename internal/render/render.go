// Package render turns a RunDigest into Slack mrkdwn text. It is pure: no
// I/O, no clock except the caller-provided title time.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/opengovhq/oryx/internal/digest"
)

const (
	badgeVerified = "✅"
	badgeMedia    = "📰"
)

// Title renders the digest headline for the given local time, e.g.
// "*Oryx 🟠 — Monday, 02 March 2026*".
func Title(now time.Time) string {
	return fmt.Sprintf("*Oryx 🟠 — %s*", now.Format("Monday, 02 January 2006"))
}

// Sections renders one mrkdwn section per digest block: the window header
// first, then each country in configured order, then the regional block.
func Sections(d *digest.RunDigest) []string {
	out := []string{fmt.Sprintf("*%s*", d.Header())}
	for _, b := range d.Countries {
		out = append(out, section(b, d.WindowHours))
	}
	if d.Regional != nil {
		out = append(out, section(*d.Regional, d.WindowHours))
	}
	return out
}

// Message joins the sections into one message body, truncated to maxLen.
// Earlier sections win: a section that does not fit is cut line by line and
// everything after it is dropped.
func Message(d *digest.RunDigest, maxLen int) string {
	var b strings.Builder
	for i, sec := range Sections(d) {
		candidate := sec
		if i > 0 {
			candidate = "\n\n" + sec
		}
		if b.Len()+len(candidate) <= maxLen {
			b.WriteString(candidate)
			continue
		}
		// Keep whole lines of the overflowing section, then stop.
		for j, line := range strings.Split(candidate, "\n") {
			piece := line
			if j > 0 {
				piece = "\n" + line
			}
			if b.Len()+len(piece) > maxLen {
				break
			}
			b.WriteString(piece)
		}
		break
	}
	return b.String()
}

func section(b digest.Block, windowHours int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s*", b.Name))
	if b.Total == 0 {
		sb.WriteString(fmt.Sprintf("\n• No verified items in the past %dh.", windowHours))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf(" — %d item%s (%d %s / %d %s)",
		b.Total, plural(b.Total), b.VerifiedCount, badgeVerified, b.MediaCount, badgeMedia))
	if len(b.TopThemes) > 0 {
		sb.WriteString(" · themes: " + strings.Join(b.TopThemes, ", "))
	}
	if len(b.TopDomains) > 0 {
		sb.WriteString(" · sources: " + strings.Join(b.TopDomains, ", "))
	}
	for _, it := range b.Items {
		sb.WriteString("\n" + bullet(it))
	}
	return sb.String()
}

func bullet(it digest.Item) string {
	badge := badgeMedia
	if it.Trust == digest.TrustVerified {
		badge = badgeVerified
	}
	label := it.Domain
	if label == "" {
		label = "source"
	}
	return fmt.Sprintf("• %s %s — <%s|%s> _(%s)_",
		badge, it.Title, it.Link, label, strings.Join(it.Themes, ", "))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
