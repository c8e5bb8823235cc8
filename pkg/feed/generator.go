package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/paperscope/pkg/domain"
)

// Generator creates an RSS version of a digest
type Generator struct {
	baseURL string
}

// NewGenerator creates a new feed generator, baseURL is used for channel and self links
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateRSS creates an RSS 2.0 feed with one item per digest record, in section order
func (g *Generator) GenerateRSS(d domain.Digest) (string, error) {
	date := d.Date.Format(domain.DateLayout)
	title := "Paperscope - " + date
	desc := fmt.Sprintf("Daily papers matched by keywords, %d records", d.PapersCount())
	if d.AIEnabled && d.Domain != "" {
		desc += fmt.Sprintf(", scored for relevance to %s", d.Domain)
	}

	items := make([]*RSSItem, 0, d.PapersCount())
	for _, sec := range d.Sections {
		for _, p := range sec.Papers {
			items = append(items, g.convertToRSSItem(sec.Keyword, p, d))
		}
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   desc,
			AtomLink:      &AtomLink{Href: g.baseURL + "/digest.rss", Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: d.Date.Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// convertToRSSItem converts a digest record to an RSS item
func (g *Generator) convertToRSSItem(keyword string, p domain.EnrichedPaper, d domain.Digest) *RSSItem {
	var desc strings.Builder
	if d.AIEnabled {
		desc.WriteString(fmt.Sprintf("Relevance: %d/5\n", p.Score))
	}
	if p.Summary != "" {
		desc.WriteString(p.Summary + "\n\n")
	}
	desc.WriteString(p.TranslatedAbstract)

	guid := p.Link
	if guid == "" {
		guid = p.Title
	}
	title := p.Title
	if d.AIEnabled {
		title = fmt.Sprintf("[%d] %s", p.Score, p.Title)
	}

	return &RSSItem{
		Title:       title,
		Link:        p.Link,
		GUID:        keyword + ":" + guid,
		Description: strings.TrimSpace(desc.String()),
		PubDate:     d.Date.Format(time.RFC1123Z),
		Categories:  append([]string{keyword}, p.Terms...),
	}
}
