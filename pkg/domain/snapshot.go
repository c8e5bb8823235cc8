package domain

import "time"

// DateLayout is the calendar date format used for snapshot identity
const DateLayout = "2006-01-02"

// Snapshot is the record of all item titles seen on a calendar day
type Snapshot struct {
	Date       string   `yaml:"date" json:"date"`
	TotalCount int      `yaml:"total_count" json:"total_count"`
	Papers     []string `yaml:"papers" json:"papers"`
}

// NewSnapshot makes a snapshot for the given day
func NewSnapshot(day time.Time, titles []string) Snapshot {
	papers := make([]string, len(titles))
	copy(papers, titles)
	return Snapshot{Date: day.Format(DateLayout), TotalCount: len(papers), Papers: papers}
}

// TitleSet returns snapshot papers as a set
func (s Snapshot) TitleSet() map[string]struct{} {
	res := make(map[string]struct{}, len(s.Papers))
	for _, p := range s.Papers {
		res[p] = struct{}{}
	}
	return res
}
