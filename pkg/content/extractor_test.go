package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		wantContent string
		wantErr     bool
		statusCode  int
	}{
		{
			name: "paper page",
			htmlContent: `<!DOCTYPE html>
				<html>
				<head><title>Lane Detection with Transformers</title></head>
				<body>
					<article>
						<h1>Lane Detection with Transformers</h1>
						<p>We propose a transformer based lane detector for autonomous driving.</p>
						<p>It runs in real time on embedded hardware.</p>
					</article>
				</body>
				</html>`,
			wantContent: "transformer based lane detector",
			statusCode:  http.StatusOK,
		},
		{
			name: "minimal content",
			htmlContent: `<!DOCTYPE html>
				<html>
				<body>
					<p>Short content</p>
				</body>
				</html>`,
			wantContent: "Short content",
			statusCode:  http.StatusOK,
		},
		{
			name:        "server error",
			htmlContent: "error",
			wantErr:     true,
			statusCode:  http.StatusInternalServerError,
		},
		{
			name:        "not found",
			htmlContent: "not found",
			wantErr:     true,
			statusCode:  http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
				assert.Equal(t, "navigate", r.Header.Get("Sec-Fetch-Mode"))
				assert.NotEmpty(t, r.Header.Get("Accept-Language"))
				if tt.statusCode == http.StatusOK {
					w.Header().Set("Content-Type", "text/html")
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			extractor := NewExtractor(10*time.Second, "test-agent")
			content, err := extractor.Extract(context.Background(), server.URL)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, content, tt.wantContent)
			assert.NotContains(t, content, "\n")
		})
	}
}

func TestExtractor_Extract_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body>Too late</body></html>"))
	}))
	defer server.Close()

	extractor := NewExtractor(100*time.Millisecond, "")
	_, err := extractor.Extract(context.Background(), server.URL)
	require.Error(t, err)
}

func TestExtractor_Extract_InvalidURL(t *testing.T) {
	extractor := NewExtractor(time.Second, "")
	assert.Equal(t, defaultUserAgent, extractor.userAgent)

	for _, u := range []string{"", "not-a-url", "http://localhost:99999/test"} {
		t.Run(u, func(t *testing.T) {
			_, err := extractor.Extract(context.Background(), u)
			require.Error(t, err)
		})
	}
}

func TestExtractor_Extract_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(5 * time.Second):
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html><body>Content</body></html>"))
		}
	}))
	defer server.Close()

	extractor := NewExtractor(5*time.Second, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extractor.Extract(ctx, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "a b c", compact("  a\n\tb   c \n"))
	assert.Empty(t, compact(" \n "))

	long := strings.Repeat("ab ", MaxAbstractLen)
	res := compact(long)
	assert.LessOrEqual(t, len([]rune(res)), MaxAbstractLen)
	assert.True(t, strings.HasPrefix(res, "ab ab"))
}
