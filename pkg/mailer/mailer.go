// Package mailer delivers the rendered digest over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/email"
	"github.com/go-pkgz/lgr"
)

//go:generate moq -out mocks/sender.go -pkg mocks -skip-ensure -fmt goimports . Sender

// Sender sends a single message
type Sender interface {
	Send(text string, params email.Params) error
}

// Params describes the SMTP server and the single sender/recipient pair
type Params struct {
	Host     string
	Port     int
	TLS      bool
	Timeout  time.Duration
	From     string // sender address, also the login
	Password string // authorization code of the sender
	To       string
}

// SMTP delivers HTML digests to one recipient
type SMTP struct {
	sender Sender
	from   string
	to     string
}

// New makes an SMTP deliverer backed by go-pkgz/email
func New(p Params) (*SMTP, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	sender := email.NewSender(p.Host,
		email.Port(p.Port),
		email.TLS(p.TLS),
		email.Auth(p.From, p.Password),
		email.ContentType("text/html"),
		email.Charset("UTF-8"),
		email.TimeOut(p.Timeout),
		email.Log(lgr.Default()),
	)
	return NewWithSender(sender, p.From, p.To), nil
}

// NewWithSender makes an SMTP deliverer with a custom sender
func NewWithSender(sender Sender, from, to string) *SMTP {
	return &SMTP{sender: sender, from: from, to: to}
}

// Deliver sends the html body with the given subject
func (s *SMTP) Deliver(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("deliver canceled: %w", err)
	}
	err := s.sender.Send(body, email.Params{From: s.from, To: []string{s.to}, Subject: subject})
	if err != nil {
		return fmt.Errorf("send digest to %s: %w", s.to, err)
	}
	lgr.Printf("[INFO] digest %q sent to %s", subject, s.to)
	return nil
}

func (p Params) validate() error {
	var errs []error
	if p.Host == "" {
		errs = append(errs, errors.New("smtp host is required"))
	}
	if p.From == "" {
		errs = append(errs, errors.New("sender is required"))
	}
	if p.Password == "" {
		errs = append(errs, errors.New("sender token is required"))
	}
	if p.To == "" {
		errs = append(errs, errors.New("receiver is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid mailer params: %w", errors.Join(errs...))
	}
	return nil
}
