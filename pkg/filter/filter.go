// Package filter narrows a day's items: snapshot deduplication and keyword bucketing.
package filter

import (
	"strings"

	"github.com/umputun/paperscope/pkg/domain"
)

// Dedup returns items whose title is not in previous. Matching is exact string equality,
// titles are expected to be normalized by the feed source.
func Dedup(items domain.ItemSet, previous map[string]struct{}) domain.ItemSet {
	var res domain.ItemSet
	for _, it := range items.Items() {
		if _, seen := previous[it.Title]; seen {
			continue
		}
		res.Add(it)
	}
	return res
}

// ByKeywords partitions items into keyword buckets using case-insensitive substring match on titles.
// An item matching several keywords appears in each bucket. Buckets follow the keyword order,
// items inside a bucket follow the item set order. Keywords without matches produce no bucket,
// blank and repeated keywords are skipped.
func ByKeywords(items domain.ItemSet, keywords []string) []domain.Bucket {
	var res []domain.Bucket
	seen := make(map[string]bool, len(keywords))
	all := items.Items()

	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" || seen[kw] {
			continue
		}
		seen[kw] = true

		needle := strings.ToLower(kw)
		var matched []domain.FeedItem
		for _, it := range all {
			if strings.Contains(strings.ToLower(it.Title), needle) {
				matched = append(matched, it)
			}
		}
		if len(matched) == 0 {
			continue
		}
		res = append(res, domain.Bucket{Keyword: kw, Items: matched})
	}
	return res
}

// Count returns number of (keyword, item) pairs in buckets
func Count(buckets []domain.Bucket) int {
	count := 0
	for _, b := range buckets {
		count += len(b.Items)
	}
	return count
}
