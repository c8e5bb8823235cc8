package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/paperscope/pkg/domain"
	"github.com/umputun/paperscope/pkg/snapshot"
	"github.com/umputun/paperscope/server/mocks"
)

func TestServer_StatusHandler(t *testing.T) {
	t.Run("nothing published", func(t *testing.T) {
		srv := New(testConfig(":8080"), &mocks.SnapshotReaderMock{}, &Publisher{}, "1.0.0", false)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp["status"])
		assert.Equal(t, "1.0.0", resp["version"])
		assert.NotContains(t, resp, "digest")
	})

	t.Run("with published digest", func(t *testing.T) {
		srv := New(testConfig(":8080"), &mocks.SnapshotReaderMock{}, publishedPublisher(t), "1.0.0", false)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Status string `json:"status"`
			Digest struct {
				Subject string `json:"subject"`
				Papers  int    `json:"papers"`
			} `json:"digest"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "arxiv Daily", resp.Digest.Subject)
		assert.Equal(t, 1, resp.Digest.Papers)
	})
}

func TestServer_SnapshotsHandler(t *testing.T) {
	tests := []struct {
		name       string
		dates      []string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "dates", dates: []string{"2025-05-20", "2025-05-19"}, wantStatus: http.StatusOK,
			wantBody: `{"dates":["2025-05-20","2025-05-19"]}`},
		{name: "empty", wantStatus: http.StatusOK, wantBody: `{"dates":[]}`},
		{name: "store error", err: errors.New("disk gone"), wantStatus: http.StatusInternalServerError,
			wantBody: `{"error":"can't list snapshots"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps := &mocks.SnapshotReaderMock{
				DatesFunc: func(ctx context.Context) ([]string, error) { return tt.dates, tt.err },
			}
			srv := New(testConfig(":8080"), snaps, &Publisher{}, "test", false)
			rec := httptest.NewRecorder()
			srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/snapshots", http.NoBody))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Len(t, snaps.DatesCalls(), 1)
		})
	}
}

func TestServer_SnapshotHandler(t *testing.T) {
	day := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	snaps := &mocks.SnapshotReaderMock{
		GetFunc: func(ctx context.Context, d time.Time) (domain.Snapshot, error) {
			switch d.Format(domain.DateLayout) {
			case "2025-05-20":
				return domain.NewSnapshot(day, []string{"Paper A", "Paper B"}), nil
			case "2025-05-21":
				return domain.Snapshot{}, errors.New("broken yaml")
			default:
				return domain.Snapshot{}, snapshot.ErrNotFound
			}
		},
	}
	srv := New(testConfig(":8080"), snaps, &Publisher{}, "test", false)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "found", path: "/api/v1/snapshots/2025-05-20", wantStatus: http.StatusOK,
			wantBody: `{"date":"2025-05-20","total_count":2,"papers":["Paper A","Paper B"]}`},
		{name: "not found", path: "/api/v1/snapshots/2025-01-01", wantStatus: http.StatusNotFound,
			wantBody: `{"error":"snapshot not found"}`},
		{name: "store error", path: "/api/v1/snapshots/2025-05-21", wantStatus: http.StatusInternalServerError,
			wantBody: `{"error":"can't load snapshot"}`},
		{name: "bad date", path: "/api/v1/snapshots/yesterday", wantStatus: http.StatusBadRequest,
			wantBody: `{"error":"invalid date, expected 2006-01-02"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
	assert.Len(t, snaps.GetCalls(), 3, "bad date never reaches the store")
}

func TestServer_DigestHandler(t *testing.T) {
	t.Run("not published", func(t *testing.T) {
		srv := New(testConfig(":8080"), &mocks.SnapshotReaderMock{}, &Publisher{}, "test", false)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/digest", http.NoBody))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "no digest published yet")
	})

	t.Run("published", func(t *testing.T) {
		srv := New(testConfig(":8080"), &mocks.SnapshotReaderMock{}, publishedPublisher(t), "test", false)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/digest", http.NoBody))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<html><body>digest body</body></html>", rec.Body.String())
	})
}
