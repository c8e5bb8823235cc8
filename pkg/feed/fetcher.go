package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/paperscope/pkg/config"
	"github.com/umputun/paperscope/pkg/domain"
)

//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . EntryParser
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// EntryParser retrieves entries of a single feed
type EntryParser interface {
	Parse(ctx context.Context, url string) ([]Entry, error)
}

// Extractor extracts abstract text from a paper page
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Fetcher polls all configured feeds and merges their items
type Fetcher struct {
	sources     []config.Feed
	parser      EntryParser
	extractor   Extractor
	concurrency int
}

// FetcherParams holds fetcher dependencies, Extractor is optional
type FetcherParams struct {
	Sources     []config.Feed
	Parser      EntryParser
	Extractor   Extractor
	Concurrency int
}

// NewFetcher creates a multi-feed fetcher
func NewFetcher(params FetcherParams) *Fetcher {
	if params.Concurrency < 1 {
		params.Concurrency = 1
	}
	return &Fetcher{
		sources:     params.Sources,
		parser:      params.Parser,
		extractor:   params.Extractor,
		concurrency: params.Concurrency,
	}
}

// Fetch polls every feed and returns the merged item set. Items are merged in configured feed
// order, an item seen in several feeds keeps its first position and the value of the last feed.
// A failing feed is logged and skipped, an error returned only if all feeds failed.
func (f *Fetcher) Fetch(ctx context.Context) (domain.ItemSet, error) {
	if len(f.sources) == 0 {
		return domain.ItemSet{}, errors.New("no feeds configured")
	}

	results := make([][]domain.FeedItem, len(f.sources))
	errs := make([]error, len(f.sources))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, src := range f.sources {
		g.Go(func() error {
			results[i], errs[i] = f.fetchFeed(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	var res domain.ItemSet
	failed := 0
	for i, src := range f.sources {
		if errs[i] != nil {
			lgr.Printf("[WARN] failed to fetch feed %s: %v", src.Name, errs[i])
			failed++
			continue
		}
		lgr.Printf("[DEBUG] fetched %d items from %s", len(results[i]), src.Name)
		for _, it := range results[i] {
			res.Add(it)
		}
	}

	if failed == len(f.sources) {
		return domain.ItemSet{}, fmt.Errorf("all %d feeds failed: %w", failed, errors.Join(errs...))
	}
	return res, nil
}

// fetchFeed parses a single feed and converts entries to items
func (f *Fetcher) fetchFeed(ctx context.Context, src config.Feed) ([]domain.FeedItem, error) {
	entries, err := f.parser.Parse(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", src.URL, err)
	}

	res := make([]domain.FeedItem, 0, len(entries))
	for _, e := range entries {
		title := NormalizeTitle(e.Title)
		if title == "" {
			continue
		}
		item := domain.FeedItem{Title: title, Link: e.Link, Abstract: CleanAbstract(e.Description), Feed: src.Name}
		if item.Abstract == "" && f.extractor != nil && item.Link != "" {
			text, err := f.extractor.Extract(ctx, item.Link)
			if err != nil {
				lgr.Printf("[WARN] failed to extract abstract from %s: %v", item.Link, err)
			} else {
				item.Abstract = text
			}
		}
		res = append(res, item)
	}
	return res, nil
}
