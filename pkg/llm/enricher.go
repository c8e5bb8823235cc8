package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/paperscope/pkg/config"
	"github.com/umputun/paperscope/pkg/domain"
)

// Enricher uses LLM to translate, summarize and score paper abstracts
type Enricher struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
}

// NewEnricher creates a new LLM enricher. Without an API key the enricher is disabled
// and every call returns the fallback enrichment.
func NewEnricher(cfg config.LLMConfig) *Enricher {
	// use custom system prompt if provided, otherwise use default
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}
	if cfg.Language == "" {
		cfg.Language = "Chinese"
	}

	res := &Enricher{config: cfg, systemMsg: systemMsg}
	if cfg.APIKey == "" {
		return res
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	res.client = openai.NewClientWithConfig(clientConfig)
	return res
}

const defaultSystemPrompt = "You are a professional academic paper analysis assistant, skilled at translation and extracting key information."

// Enabled reports whether the enricher has a configured client
func (e *Enricher) Enabled() bool {
	return e != nil && e.client != nil
}

// response is the JSON object the model is asked to return. Fields are decoded leniently,
// a missing or mistyped field falls back to its default.
type response struct {
	TranslatedAbstract json.RawMessage `json:"chinese_abstract"`
	Keywords           json.RawMessage `json:"keywords"`
	MainContribution   json.RawMessage `json:"main_contribution"`
	RelevanceScore     json.RawMessage `json:"relevance_score"`
}

// Enrich asks the model to translate the abstract, extract keywords, summarize the contribution and
// score relevance to the domain. The returned enrichment is always usable: on failure it is degraded
// and the error (*Error) tells why.
//   - no client: fallback, KindUnavailable
//   - call failed: fallback, KindUpstream
//   - no JSON object in response: raw response as translation, KindMalformed
func (e *Enricher) Enrich(ctx context.Context, title, abstract, domainLabel string) (domain.Enrichment, error) {
	if !e.Enabled() {
		return domain.FallbackEnrichment(abstract), &Error{Kind: KindUnavailable, Err: ErrNotConfigured}
	}

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       e.config.Model,
		Temperature: float32(e.config.Temperature),
		MaxTokens:   e.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: e.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: e.buildPrompt(title, abstract, domainLabel)},
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		lgr.Printf("[WARN] enrichment request failed for %q: %v", title, err)
		return domain.FallbackEnrichment(abstract), &Error{Kind: KindUpstream, Err: fmt.Errorf("llm request failed: %w", err)}
	}
	if len(resp.Choices) == 0 {
		lgr.Printf("[WARN] enrichment returned no choices for %q", title)
		return domain.FallbackEnrichment(abstract), &Error{Kind: KindUpstream, Err: fmt.Errorf("no response from llm")}
	}

	content := resp.Choices[0].Message.Content
	res, err := parseResponse(content, abstract)
	if err != nil {
		lgr.Printf("[DEBUG] can't parse enrichment response for %q: %v", title, err)
		// keep whatever the model said as the translation
		return domain.Enrichment{TranslatedAbstract: content, Terms: []string{}, Score: domain.NeutralScore},
			&Error{Kind: KindMalformed, Err: err}
	}
	return res, nil
}

// buildPrompt creates the user prompt for a single paper
func (e *Enricher) buildPrompt(title, abstract, domainLabel string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following paper.\n\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", title))
	sb.WriteString(fmt.Sprintf("Abstract (English): %s\n", abstract))
	sb.WriteString(fmt.Sprintf("Target domain: %s\n\n", domainLabel))

	sb.WriteString("Tasks:\n")
	sb.WriteString(fmt.Sprintf("1. Translate the abstract into %s\n", e.config.Language))
	sb.WriteString("2. Extract 3-5 core technical keywords\n")
	sb.WriteString("3. Summarize the main contribution of the paper in one sentence\n")
	sb.WriteString(fmt.Sprintf("4. Rate how relevant the paper is to %q on a 1-5 scale (5 most relevant, 1 barely relevant)\n\n", domainLabel))

	sb.WriteString("Respond with a JSON object in this format:\n")
	sb.WriteString("{\n")
	sb.WriteString(fmt.Sprintf("    \"chinese_abstract\": \"abstract translated into %s\",\n", e.config.Language))
	sb.WriteString("    \"keywords\": [\"keyword1\", \"keyword2\", \"keyword3\"],\n")
	sb.WriteString("    \"main_contribution\": \"main contribution summary\",\n")
	sb.WriteString("    \"relevance_score\": relevance score (integer 1-5)\n")
	sb.WriteString("}\n")
	return sb.String()
}

// ExtractJSON returns the span from the first '{' to the last '}' of text.
// This is a lenient best-effort extractor for JSON embedded in free text, it does not
// balance braces or repair anything, the caller's JSON decoder decides if the span is valid.
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start >= end {
		return "", false
	}
	return text[start : end+1], true
}

// parseResponse extracts enrichment fields from the model response, applying defaults
func parseResponse(content, abstract string) (domain.Enrichment, error) {
	jsonStr, ok := ExtractJSON(content)
	if !ok {
		return domain.Enrichment{}, fmt.Errorf("no json object found in response")
	}

	var resp response
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return domain.Enrichment{}, fmt.Errorf("failed to parse json object response: %w", err)
	}

	res := domain.Enrichment{
		TranslatedAbstract: abstract,
		Terms:              parseTerms(resp.Keywords),
		Score:              parseScore(resp.RelevanceScore),
	}
	if s, ok := rawString(resp.TranslatedAbstract); ok {
		res.TranslatedAbstract = s
	}
	if s, ok := rawString(resp.MainContribution); ok {
		res.Summary = s
	}
	return res, nil
}

// parseScore converts the raw relevance_score into [1,5]. Numbers and numeric strings are
// truncated toward zero, anything else gives the neutral score.
func parseScore(raw json.RawMessage) int {
	if isNull(raw) {
		return domain.NeutralScore
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return clampFloat(num)
	}

	if s, ok := rawString(raw); ok {
		if num, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return clampFloat(num)
		}
	}
	return domain.NeutralScore
}

func clampFloat(v float64) int {
	switch {
	case math.IsNaN(v):
		return domain.NeutralScore
	case v <= domain.MinScore:
		return domain.MinScore
	case v >= domain.MaxScore:
		return domain.MaxScore
	}
	return domain.ClampScore(int(v))
}

// parseTerms returns up to MaxTerms non-empty string keywords
func parseTerms(raw json.RawMessage) []string {
	res := []string{}
	var vals []any
	if isNull(raw) || json.Unmarshal(raw, &vals) != nil {
		return res
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		res = append(res, strings.TrimSpace(s))
		if len(res) == domain.MaxTerms {
			break
		}
	}
	return res
}

// rawString decodes raw as a JSON string, false for missing, null or non-string values
func rawString(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// isNull reports a missing field or an explicit JSON null
func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || strings.TrimSpace(string(raw)) == "null"
}
