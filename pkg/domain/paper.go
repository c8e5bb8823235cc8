package domain

import "time"

// default and bounds of the relevance score
const (
	MinScore     = 1
	MaxScore     = 5
	NeutralScore = 3
	MaxTerms     = 5
)

// Bucket holds items matched by a single keyword, in discovery order
type Bucket struct {
	Keyword string
	Items   []FeedItem
}

// Enrichment is the LLM-produced augmentation of a paper abstract
type Enrichment struct {
	TranslatedAbstract string
	Summary            string   // one-sentence main contribution
	Terms              []string // 0-5 extracted keywords
	Score              int      // relevance to the target domain, always in [1,5]
}

// FallbackEnrichment returns the neutral enrichment used when the model is unavailable
func FallbackEnrichment(abstract string) Enrichment {
	return Enrichment{TranslatedAbstract: abstract, Terms: []string{}, Score: NeutralScore}
}

// ClampScore forces the score into [MinScore, MaxScore]
func ClampScore(score int) int {
	return max(MinScore, min(MaxScore, score))
}

// EnrichedPaper is a feed item with its enrichment, one per (keyword, item) pair
type EnrichedPaper struct {
	FeedItem
	Enrichment
}

// Section is a digest part listing papers matched by one keyword
type Section struct {
	Keyword string
	Papers  []EnrichedPaper
}

// Digest is the final structure handed to renderers and delivery
type Digest struct {
	Date      time.Time
	Domain    string // target domain label used for relevance scoring
	AIEnabled bool   // true if enrichment client was active for this run
	Sections  []Section
}

// PapersCount returns total number of paper records in all sections
func (d Digest) PapersCount() int {
	count := 0
	for _, s := range d.Sections {
		count += len(s.Papers)
	}
	return count
}
