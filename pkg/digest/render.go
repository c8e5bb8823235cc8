// Package digest renders a curated digest into an HTML message body.
package digest

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/umputun/paperscope/pkg/domain"
)

//go:embed digest.html.tmpl
var digestTemplate string

// ColorScheme is a section palette
type ColorScheme struct {
	Primary string
	Light   string
	Dark    string
}

// Schemes are assigned to sections in order and cycle
var Schemes = []ColorScheme{
	{Primary: "#FF6B6B", Light: "#FFE5E5", Dark: "#C92A2A"},
	{Primary: "#4ECDC4", Light: "#D3F9F6", Dark: "#087F8C"},
	{Primary: "#45B7D1", Light: "#DAEDFF", Dark: "#0C7FB0"},
	{Primary: "#96CEB4", Light: "#E8F5EE", Dark: "#5A9F7B"},
	{Primary: "#FECA57", Light: "#FFF3D6", Dark: "#F59E0B"},
	{Primary: "#A29BFE", Light: "#E8E6FF", Dark: "#6C5CE7"},
	{Primary: "#FD79A8", Light: "#FFE0EC", Dark: "#E84393"},
	{Primary: "#778BEB", Light: "#E3E7FF", Dark: "#546DE5"},
}

var relevanceLabels = map[int]string{
	5: "very relevant",
	4: "relevant",
	3: "moderate",
	2: "marginal",
	1: "not relevant",
}

// RelevanceLabel returns a short label for a score, out of range scores are clamped
func RelevanceLabel(score int) string {
	return relevanceLabels[domain.ClampScore(score)]
}

// Stars renders a score as filled and empty stars, always five in total
func Stars(score int) string {
	score = domain.ClampScore(score)
	return strings.Repeat("★", score) + strings.Repeat("☆", domain.MaxScore-score)
}

// HTMLRenderer renders digests with html/template
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded template
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("digest").Funcs(template.FuncMap{
		"stars":     Stars,
		"relevance": RelevanceLabel,
		"score":     domain.ClampScore,
	}).Parse(digestTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse digest template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

type sectionView struct {
	domain.Section
	Scheme ColorScheme
}

type digestView struct {
	Date      string
	Domain    string
	AIEnabled bool
	Total     int
	Sections  []sectionView
}

// Render produces the HTML body of the digest
func (r *HTMLRenderer) Render(d domain.Digest) (string, error) {
	view := digestView{
		Date:      d.Date.Format(domain.DateLayout),
		Domain:    d.Domain,
		AIEnabled: d.AIEnabled,
		Total:     d.PapersCount(),
		Sections:  make([]sectionView, 0, len(d.Sections)),
	}
	for i, s := range d.Sections {
		view.Sections = append(view.Sections, sectionView{Section: s, Scheme: Schemes[i%len(Schemes)]})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}
