// Package pipeline runs one daily curation pass: fetch, snapshot, dedup, keyword filter,
// enrichment, rendering and delivery. Stages run strictly in order, the only pause is the
// delay between successive enrichment calls.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/paperscope/pkg/domain"
	"github.com/umputun/paperscope/pkg/filter"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . SnapshotStore
//go:generate moq -out mocks/enricher.go -pkg mocks -skip-ensure -fmt goimports . Enricher
//go:generate moq -out mocks/renderer.go -pkg mocks -skip-ensure -fmt goimports . Renderer
//go:generate moq -out mocks/deliverer.go -pkg mocks -skip-ensure -fmt goimports . Deliverer

// Fetcher collects today's items from all configured feeds
type Fetcher interface {
	Fetch(ctx context.Context) (domain.ItemSet, error)
}

// SnapshotStore persists per-day title sets
type SnapshotStore interface {
	Load(ctx context.Context, day time.Time) (map[string]struct{}, error)
	Save(ctx context.Context, day time.Time, titles []string) error
}

// Enricher augments a single paper, the returned enrichment is usable even with an error
type Enricher interface {
	Enabled() bool
	Enrich(ctx context.Context, title, abstract, domainLabel string) (domain.Enrichment, error)
}

// Renderer turns a digest into a message body
type Renderer interface {
	Render(d domain.Digest) (string, error)
}

// Deliverer sends the rendered digest
type Deliverer interface {
	Deliver(ctx context.Context, subject, body string) error
}

// Status of a finished run
type Status int

// run outcomes
const (
	StatusFailed          Status = iota // run aborted by a stage error
	StatusDelivered                     // digest rendered and delivered
	StatusNothingToReport               // no new item matched any keyword
)

func (s Status) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusDelivered:
		return "delivered"
	case StatusNothingToReport:
		return "nothing to report"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result summarises a run
type Result struct {
	Status     Status
	Fetched    int // unique items from all feeds
	Duplicates int // items already reported the day before
	Matched    int // (keyword, item) records after filtering
	Enriched   int // records enriched by the model without errors
	Degraded   int // records that got a fallback or partial enrichment
	Digest     domain.Digest
}

// Config holds pipeline collaborators and settings
type Config struct {
	Fetcher   Fetcher
	Store     SnapshotStore
	Enricher  Enricher
	Renderer  Renderer
	Deliverer Deliverer
	Keywords  []string
	Domain    string        // target domain for relevance scoring
	Subject   string        // delivery subject
	Delay     time.Duration // pause between successive enrichment calls
}

// Pipeline is a single-pass daily digest orchestrator
type Pipeline struct {
	fetcher   Fetcher
	store     SnapshotStore
	enricher  Enricher
	renderer  Renderer
	deliverer Deliverer
	keywords  []string
	domain    string
	subject   string
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

// New makes a pipeline from the config
func New(cfg Config) *Pipeline {
	if cfg.Subject == "" {
		cfg.Subject = "arxiv Daily"
	}
	return &Pipeline{
		fetcher:   cfg.Fetcher,
		store:     cfg.Store,
		enricher:  cfg.Enricher,
		renderer:  cfg.Renderer,
		deliverer: cfg.Deliverer,
		keywords:  cfg.Keywords,
		domain:    cfg.Domain,
		subject:   cfg.Subject,
		delay:     cfg.Delay,
		sleep:     sleepCtx,
	}
}

// Run executes the pipeline for the given day. A run with nothing to report returns
// StatusNothingToReport and no error. Fatal stage failures are returned as *StageError.
func (p *Pipeline) Run(ctx context.Context, day time.Time) (Result, error) {
	res := Result{}

	items, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return res, &StageError{Stage: StageFetch, Err: err}
	}
	res.Fetched = items.Len()
	lgr.Printf("[INFO] fetched %d papers", res.Fetched)

	// today's full set is saved before dedup, tomorrow compares against it
	if err := p.store.Save(ctx, day, items.Titles()); err != nil {
		lgr.Printf("[WARN] failed to save snapshot for %s: %v", day.Format(domain.DateLayout), err)
	}

	previous, err := p.store.Load(ctx, day.AddDate(0, 0, -1))
	if err != nil {
		lgr.Printf("[WARN] can't load previous snapshot, treating as empty: %v", err)
		previous = map[string]struct{}{}
	}

	fresh := filter.Dedup(items, previous)
	res.Duplicates = items.Len() - fresh.Len()
	lgr.Printf("[INFO] %d new papers, %d already reported", fresh.Len(), res.Duplicates)

	buckets := filter.ByKeywords(fresh, p.keywords)
	res.Matched = filter.Count(buckets)
	if len(buckets) == 0 {
		lgr.Printf("[INFO] no papers matched keywords %v", p.keywords)
		res.Status = StatusNothingToReport
		return res, nil
	}
	lgr.Printf("[INFO] %d papers matched %d keywords", res.Matched, len(buckets))

	sections, err := p.enrich(ctx, buckets, &res)
	if err != nil {
		return res, &StageError{Stage: StageEnrich, Err: err}
	}

	res.Digest = domain.Digest{
		Date:      day,
		Domain:    p.domain,
		AIEnabled: p.enricher.Enabled(),
		Sections:  sections,
	}

	body, err := p.renderer.Render(res.Digest)
	if err != nil {
		return res, &StageError{Stage: StageRender, Err: err}
	}

	if err := p.deliverer.Deliver(ctx, p.subject, body); err != nil {
		return res, &StageError{Stage: StageDeliver, Err: err}
	}
	lgr.Printf("[INFO] digest with %d papers delivered", res.Digest.PapersCount())
	res.Status = StatusDelivered
	return res, nil
}

// enrich produces one enriched record per (keyword, item) pair. Calls are sequential with
// the delay between them. Without an active enricher every record gets the fallback.
func (p *Pipeline) enrich(ctx context.Context, buckets []domain.Bucket, res *Result) ([]domain.Section, error) {
	enabled := p.enricher.Enabled()
	if !enabled {
		lgr.Printf("[INFO] enrichment disabled, using original abstracts")
	}

	sections := make([]domain.Section, 0, len(buckets))
	calls := 0
	for _, b := range buckets {
		sec := domain.Section{Keyword: b.Keyword, Papers: make([]domain.EnrichedPaper, 0, len(b.Items))}
		for _, it := range b.Items {
			if !enabled {
				sec.Papers = append(sec.Papers, domain.EnrichedPaper{FeedItem: it, Enrichment: domain.FallbackEnrichment(it.Abstract)})
				res.Degraded++
				continue
			}

			if calls > 0 {
				if err := p.sleep(ctx, p.delay); err != nil {
					return nil, fmt.Errorf("interrupted after %d calls: %w", calls, err)
				}
			}
			calls++

			lgr.Printf("[INFO] processing paper: %s...", truncate(it.Title, 50))
			enr, err := p.enricher.Enrich(ctx, it.Title, it.Abstract, p.domain)
			if err != nil {
				lgr.Printf("[WARN] degraded enrichment for %q: %v", it.Title, err)
				res.Degraded++
			} else {
				res.Enriched++
			}
			enr.Score = domain.ClampScore(enr.Score)
			sec.Papers = append(sec.Papers, domain.EnrichedPaper{FeedItem: it, Enrichment: enr})
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// sleepCtx waits for d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// truncate returns at most n runes of s
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
