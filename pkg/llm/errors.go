package llm

import (
	"errors"
	"fmt"
)

// Kind classifies enrichment failures
type Kind int

// enrichment failure kinds
const (
	KindUnavailable Kind = iota // no client configured, call skipped
	KindUpstream                // the service call failed
	KindMalformed               // response had no parsable JSON object
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindUpstream:
		return "upstream"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrNotConfigured is wrapped into Error when enrichment is disabled
var ErrNotConfigured = errors.New("enrichment client not configured")

// Error is returned by Enrich together with a degraded, still usable result
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("enrichment %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an enrichment Error of the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
