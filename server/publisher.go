package server

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/paperscope/pkg/domain"
)

// Page is a published digest
type Page struct {
	Subject     string
	HTML        string
	Digest      domain.Digest
	PublishedAt time.Time
}

// Publisher keeps the latest digest for the preview server. It is a delivery target
// used instead of the mailer in serve mode.
type Publisher struct {
	mu     sync.RWMutex
	page   Page
	ok     bool
	digest domain.Digest
}

// Deliver stores the rendered digest
func (p *Publisher) Deliver(_ context.Context, subject, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = Page{Subject: subject, HTML: body, Digest: p.digest, PublishedAt: time.Now()}
	p.ok = true
	lgr.Printf("[INFO] digest %q published", subject)
	return nil
}

// SetDigest attaches the structured digest used for the RSS view
func (p *Publisher) SetDigest(d domain.Digest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.digest = d
	if p.ok {
		p.page.Digest = d
	}
}

// Latest returns the last published page
func (p *Publisher) Latest() (Page, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.page, p.ok
}
