package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rpgo/payoff-planner/internal/domain"
	"gopkg.in/yaml.v3"
)

const scenarioFileExt = ".yaml"

// FileStore writes one YAML document per scenario into a directory
type FileStore struct {
	dir  string
	opts Options
}

// NewFileStore creates the directory if needed and returns a store rooted there
func NewFileStore(dir string, opts Options) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scenario directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, opts: opts.withDefaults()}, nil
}

func (f *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return filepath.Join(f.dir, id+scenarioFileExt), nil
}

// Save marshals the snapshot to YAML and writes it atomically via a temp file
func (f *FileStore) Save(ctx context.Context, name string, params domain.ScenarioParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	snap, err := newSnapshot(f.opts, name, params)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scenario %s: %w", snap.ID, err)
	}
	target, err := f.path(snap.ID)
	if err != nil {
		return "", err
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write scenario %s: %w", snap.ID, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to commit scenario %s: %w", snap.ID, err)
	}
	return snap.ID, nil
}

// Load reads and decodes one scenario file
func (f *FileStore) Load(ctx context.Context, id string) (domain.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return domain.Scenario{}, err
	}
	p, err := f.path(id)
	if err != nil {
		return domain.Scenario{}, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Scenario{}, ErrNotFound
	}
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("failed to read scenario %s: %w", id, err)
	}
	var s domain.Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return domain.Scenario{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, id, err)
	}
	return checkDecoded(id, s)
}

// List returns the IDs of all scenario files
func (f *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", f.dir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), scenarioFileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), scenarioFileExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes a scenario file
func (f *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := f.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete scenario %s: %w", id, err)
	}
	return nil
}
