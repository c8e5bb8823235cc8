package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/paperscope/pkg/config"
)

// newTestServer returns an OpenAI-compatible server answering every request with content
func newTestServer(t *testing.T, content string, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Contains(t, req.Messages[1].Content, "Title: Deep Learning for Vision")
		assert.Contains(t, req.Messages[1].Content, "Target domain: autonomous driving")

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func testConfig(url string) config.LLMConfig {
	return config.LLMConfig{
		Endpoint:    url + "/v1",
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.3,
		MaxTokens:   500,
		Timeout:     5 * time.Second,
	}
}

func TestEnricher_Enrich(t *testing.T) {
	content := `Sure, here is the analysis:
{
    "chinese_abstract": "用于视觉的深度学习",
    "keywords": ["deep learning", "vision", "cnn"],
    "main_contribution": "A new backbone for perception.",
    "relevance_score": 4
}
Hope it helps.`

	var calls int32
	server := newTestServer(t, content, &calls)
	defer server.Close()

	enricher := NewEnricher(testConfig(server.URL))
	require.True(t, enricher.Enabled())

	res, err := enricher.Enrich(context.Background(), "Deep Learning for Vision", "original abstract", "autonomous driving")
	require.NoError(t, err)
	assert.Equal(t, "用于视觉的深度学习", res.TranslatedAbstract)
	assert.Equal(t, []string{"deep learning", "vision", "cnn"}, res.Terms)
	assert.Equal(t, "A new backbone for perception.", res.Summary)
	assert.Equal(t, 4, res.Score)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestEnricher_NotConfigured(t *testing.T) {
	enricher := NewEnricher(config.LLMConfig{Model: "test-model"})
	assert.False(t, enricher.Enabled())

	res, err := enricher.Enrich(context.Background(), "title", "original abstract", "robotics")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnavailable))
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.Equal(t, "original abstract", res.TranslatedAbstract)
	assert.Empty(t, res.Summary)
	assert.Empty(t, res.Terms)
	assert.Equal(t, 3, res.Score)

	var nilEnricher *Enricher
	assert.False(t, nilEnricher.Enabled())
}

func TestEnricher_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit"}}`))
	}))
	defer server.Close()

	enricher := NewEnricher(testConfig(server.URL))
	res, err := enricher.Enrich(context.Background(), "title", "original abstract", "robotics")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUpstream))
	assert.Contains(t, err.Error(), "llm request failed")

	assert.Equal(t, "original abstract", res.TranslatedAbstract)
	assert.Empty(t, res.Summary)
	assert.Empty(t, res.Terms)
	assert.Equal(t, 3, res.Score)
}

func TestEnricher_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	}))
	defer server.Close()

	enricher := NewEnricher(testConfig(server.URL))
	res, err := enricher.Enrich(context.Background(), "title", "original abstract", "robotics")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUpstream))
	assert.Equal(t, "original abstract", res.TranslatedAbstract)
	assert.Equal(t, 3, res.Score)
}

func TestEnricher_MalformedResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no json", content: "I cannot help with that."},
		{name: "broken json", content: `here: {"chinese_abstract": "x", "keywords": [}`},
		{name: "json array", content: `{ "a": 1 } and { "b": 2 }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.content, nil)
			defer server.Close()

			enricher := NewEnricher(testConfig(server.URL))
			res, err := enricher.Enrich(context.Background(), "Deep Learning for Vision", "original abstract", "autonomous driving")
			require.Error(t, err)
			assert.True(t, IsKind(err, KindMalformed))

			assert.Equal(t, tt.content, res.TranslatedAbstract, "raw response kept as translation")
			assert.Empty(t, res.Summary)
			assert.Empty(t, res.Terms)
			assert.Equal(t, 3, res.Score)
		})
	}
}

func TestEnricher_CanceledContext(t *testing.T) {
	server := newTestServer(t, `{"relevance_score": 5}`, nil)
	defer server.Close()

	enricher := NewEnricher(testConfig(server.URL))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := enricher.Enrich(ctx, "title", "original abstract", "robotics")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUpstream))
	assert.Equal(t, "original abstract", res.TranslatedAbstract)
}

func TestEnricher_CustomSystemPrompt(t *testing.T) {
	customPrompt := "You are a specialized robotics curator."
	enricher := NewEnricher(config.LLMConfig{APIKey: "test-key", Model: "gpt-4", SystemPrompt: customPrompt})
	assert.Equal(t, customPrompt, enricher.systemMsg)

	enricher = NewEnricher(config.LLMConfig{APIKey: "test-key", Model: "gpt-4"})
	assert.Contains(t, enricher.systemMsg, "academic paper analysis assistant")
}

func TestEnricher_buildPrompt(t *testing.T) {
	enricher := NewEnricher(config.LLMConfig{Language: "Japanese"})
	prompt := enricher.buildPrompt("Paper Title", "Some abstract.", "robotics")

	assert.Contains(t, prompt, "Title: Paper Title")
	assert.Contains(t, prompt, "Abstract (English): Some abstract.")
	assert.Contains(t, prompt, "Target domain: robotics")
	assert.Contains(t, prompt, "Translate the abstract into Japanese")
	assert.Contains(t, prompt, "Extract 3-5 core technical keywords")
	assert.Contains(t, prompt, `relevant the paper is to "robotics" on a 1-5 scale`)
	assert.Contains(t, prompt, `"chinese_abstract"`)
	assert.Contains(t, prompt, `"relevance_score"`)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{name: "plain object", text: `{"a":1}`, want: `{"a":1}`, wantOK: true},
		{name: "surrounded by text", text: "answer:\n{\"a\":1}\nthanks", want: "{\"a\":1}", wantOK: true},
		{name: "greedy across objects", text: `x {"a":1} y {"b":2} z`, want: `{"a":1} y {"b":2}`, wantOK: true},
		{name: "multiline nested", text: "{\n \"a\": {\"b\": 1}\n}", want: "{\n \"a\": {\"b\": 1}\n}", wantOK: true},
		{name: "no braces", text: "nothing here", wantOK: false},
		{name: "only open", text: "{ unterminated", wantOK: false},
		{name: "reversed", text: "} backwards {", wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResponse_Defaults(t *testing.T) {
	res, err := parseResponse(`{}`, "orig")
	require.NoError(t, err)
	assert.Equal(t, "orig", res.TranslatedAbstract)
	assert.Empty(t, res.Summary)
	assert.Equal(t, []string{}, res.Terms)
	assert.Equal(t, 3, res.Score)

	res, err = parseResponse(`{"chinese_abstract": null, "keywords": null, "main_contribution": 42, "relevance_score": null}`, "orig")
	require.NoError(t, err)
	assert.Equal(t, "orig", res.TranslatedAbstract)
	assert.Empty(t, res.Summary)
	assert.Empty(t, res.Terms)
	assert.Equal(t, 3, res.Score)
}

func TestParseResponse_Terms(t *testing.T) {
	res, err := parseResponse(`{"keywords": ["a", " b ", "", 7, "c", "d", "e", "f", "g"]}`, "orig")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, res.Terms, "non-strings and blanks skipped, capped at 5")

	res, err = parseResponse(`{"keywords": "not a list"}`, "orig")
	require.NoError(t, err)
	assert.Empty(t, res.Terms)
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: `1`, want: 1},
		{raw: `3`, want: 3},
		{raw: `5`, want: 5},
		{raw: `0`, want: 1},
		{raw: `-4`, want: 1},
		{raw: `6`, want: 5},
		{raw: `1000000`, want: 5},
		{raw: `4.9`, want: 4},
		{raw: `1.2`, want: 1},
		{raw: `"4"`, want: 4},
		{raw: `" 2 "`, want: 2},
		{raw: `"9"`, want: 5},
		{raw: `"-1"`, want: 1},
		{raw: `"3.7"`, want: 3},
		{raw: `"high"`, want: 3},
		{raw: `"NaN"`, want: 3},
		{raw: `""`, want: 3},
		{raw: `true`, want: 3},
		{raw: `[5]`, want: 3},
		{raw: `{"v": 5}`, want: 3},
		{raw: `null`, want: 3},
		{raw: ``, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := parseScore(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, 5)
		})
	}
}

func TestError(t *testing.T) {
	err := &Error{Kind: KindMalformed, Err: errors.New("bad json")}
	assert.Equal(t, "enrichment malformed: bad json", err.Error())
	assert.True(t, IsKind(err, KindMalformed))
	assert.False(t, IsKind(err, KindUpstream))
	assert.False(t, IsKind(errors.New("other"), KindMalformed))
	assert.Equal(t, "kind(9)", Kind(9).String())
}
