// Package snapshot persists the per-day set of seen paper titles.
// A day without a record is a valid state and loads as an empty set.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/umputun/paperscope/pkg/domain"
)

// ErrNotFound returned by Get when no record exists for the requested day
var ErrNotFound = errors.New("snapshot not found")

// getter is implemented by both stores, Load is built on top of it
type getter interface {
	Get(ctx context.Context, day time.Time) (domain.Snapshot, error)
}

// load converts a stored snapshot to a title set, missing record is an empty set
func load(ctx context.Context, g getter, day time.Time) (map[string]struct{}, error) {
	snap, err := g.Get(ctx, day)
	if errors.Is(err, ErrNotFound) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return map[string]struct{}{}, fmt.Errorf("load snapshot %s: %w", day.Format(domain.DateLayout), err)
	}
	return snap.TitleSet(), nil
}
