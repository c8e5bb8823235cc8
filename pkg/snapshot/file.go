package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/umputun/paperscope/pkg/domain"
)

// FileStore keeps one YAML file per day, named YYYY-MM-DD.yaml
type FileStore struct {
	dir string
}

// NewFileStore makes a store rooted at dir. The directory is created on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load returns titles recorded for the day, empty set if there is no record
func (s *FileStore) Load(ctx context.Context, day time.Time) (map[string]struct{}, error) {
	return load(ctx, s, day)
}

// Get reads the snapshot record for the day
func (s *FileStore) Get(ctx context.Context, day time.Time) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	data, err := os.ReadFile(s.path(day))
	if errors.Is(err, os.ErrNotExist) {
		return domain.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}

	var snap domain.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse snapshot file: %w", err)
	}
	return snap, nil
}

// Save writes the full title set for the day, replacing any existing record.
// The file is written to a temp file first and renamed, so a killed process never leaves a partial record.
func (s *FileStore) Save(ctx context.Context, day time.Time, titles []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(domain.NewSnapshot(day, titles)); err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path(day)); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}

	lgr.Printf("[DEBUG] saved snapshot with %d papers to %s", len(titles), s.path(day))
	return nil
}

// Dates lists days with stored snapshots, newest first
func (s *FileStore) Dates(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}

	res := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		date := strings.TrimSuffix(name, ".yaml")
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			continue
		}
		res = append(res, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(res)))
	return res, nil
}

func (s *FileStore) path(day time.Time) string {
	return filepath.Join(s.dir, day.Format(domain.DateLayout)+".yaml")
}
