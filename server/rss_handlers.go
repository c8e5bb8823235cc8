package server

import (
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/paperscope/pkg/feed"
)

// rssHandler serves the last digest as RSS, links are built from the request host
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.publisher.Latest()
	if !ok {
		http.Error(w, "no digest published yet", http.StatusNotFound)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	rss, err := feed.NewGenerator(scheme + "://" + r.Host).GenerateRSS(page.Digest)
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[WARN] failed to write RSS response: %v", err)
	}
}
