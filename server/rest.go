package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/paperscope/pkg/domain"
	"github.com/umputun/paperscope/pkg/snapshot"
)

// statusHandler returns server status and the last published digest summary
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := rest.JSON{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	if page, ok := s.publisher.Latest(); ok {
		status["digest"] = rest.JSON{
			"subject":      page.Subject,
			"published_at": page.PublishedAt,
			"papers":       page.Digest.PapersCount(),
		}
	}
	rest.RenderJSON(w, status)
}

// snapshotsHandler lists stored snapshot dates, newest first
func (s *Server) snapshotsHandler(w http.ResponseWriter, r *http.Request) {
	dates, err := s.snapshots.Dates(r.Context())
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusInternalServerError, err, "can't list snapshots")
		return
	}
	if dates == nil {
		dates = []string{}
	}
	rest.RenderJSON(w, rest.JSON{"dates": dates})
}

// snapshotHandler returns the snapshot of a single day
func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	day, err := time.Parse(domain.DateLayout, r.PathValue("date"))
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, fmt.Sprintf("invalid date, expected %s", domain.DateLayout))
		return
	}

	snap, err := s.snapshots.Get(r.Context(), day)
	if errors.Is(err, snapshot.ErrNotFound) {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusNotFound, err, "snapshot not found")
		return
	}
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusInternalServerError, err, "can't load snapshot")
		return
	}
	rest.RenderJSON(w, snap)
}

// digestHandler serves the last rendered digest
func (s *Server) digestHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.publisher.Latest()
	if !ok {
		http.Error(w, "no digest published yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(page.HTML)); err != nil {
		lgr.Printf("[WARN] failed to write digest response: %v", err)
	}
}
