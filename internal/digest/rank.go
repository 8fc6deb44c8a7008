package digest

import (
	"fmt"
	"sort"
)

// dedupe removes duplicates from pool by identity key, first seen wins.
// Keys of surviving items are recorded in seen; items whose key is already
// in seen (claimed earlier in the run) are dropped.
func dedupe(pool []Item, seen map[string]struct{}) []Item {
	out := make([]Item, 0, len(pool))
	for _, it := range pool {
		key := it.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// rank orders a country pool: verified before media, then by theme-match
// breadth, then newest first.
func rank(pool []Item) {
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.Trust != b.Trust {
			return a.Trust == TrustVerified
		}
		if len(a.Themes) != len(b.Themes) {
			return len(a.Themes) > len(b.Themes)
		}
		return a.Published.After(*b.Published)
	})
}

// buildBlock ranks the deduplicated pool and assembles the display slice and
// metrics. Metrics cover the whole pool, not just the capped slice.
func buildBlock(name string, pool []Item, cap int) Block {
	rank(pool)

	b := Block{Name: name, Total: len(pool)}
	domains := map[string]int{}
	themes := map[string]int{}
	for _, it := range pool {
		if it.Trust == TrustVerified {
			b.VerifiedCount++
		} else {
			b.MediaCount++
		}
		domains[it.Domain]++
		for _, th := range it.Themes {
			themes[th]++
		}
	}
	b.TopDomains = topKeys(domains, 3)
	b.TopThemes = topKeys(themes, 3)

	display := pool
	if len(display) > cap {
		display = display[:cap]
	}
	b.Items = append([]Item(nil), display...)
	return b
}

// topKeys returns up to n keys by descending count, ties broken
// alphabetically so output is stable across runs.
func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func headerLabel(hours int) string {
	return fmt.Sprintf("Country updates (past %dh)", hours)
}
