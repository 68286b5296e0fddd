// Package store persists named scenario snapshots.
//
// Every backend encodes the parameters at save time and decodes a fresh value
// on load, so a stored snapshot can never alias the caller's working params.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/payoff-planner/internal/domain"
)

var (
	// ErrNotFound is returned when no scenario exists under an ID
	ErrNotFound = errors.New("scenario not found")
	// ErrCorrupt is returned when a stored snapshot cannot be decoded or is inconsistent
	ErrCorrupt = errors.New("scenario snapshot corrupted")
)

// Store is the persistence collaborator for saved scenarios
type Store interface {
	Save(ctx context.Context, name string, params domain.ScenarioParams) (string, error)
	Load(ctx context.Context, id string) (domain.Scenario, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// IDFunc generates scenario identifiers
type IDFunc func() string

// Options are shared by all backends
type Options struct {
	NewID IDFunc
	Now   func() time.Time
}

func (o Options) withDefaults() Options {
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// newSnapshot validates params and freezes them into a scenario
func newSnapshot(opts Options, name string, params domain.ScenarioParams) (domain.Scenario, error) {
	if err := params.Validate(); err != nil {
		return domain.Scenario{}, fmt.Errorf("cannot save scenario: %w", err)
	}
	name = strings.TrimSpace(name)
	id := opts.NewID()
	if name == "" {
		name = id
	}
	return domain.Scenario{
		ID:        id,
		Name:      name,
		CreatedAt: opts.Now().UTC(),
		Params:    params.Clone(),
	}, nil
}

func encodeJSON(s domain.Scenario) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode scenario %s: %w", s.ID, err)
	}
	return data, nil
}

func decodeJSON(id string, data []byte) (domain.Scenario, error) {
	var s domain.Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Scenario{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, id, err)
	}
	return checkDecoded(id, s)
}

func checkDecoded(id string, s domain.Scenario) (domain.Scenario, error) {
	if s.ID != id {
		return domain.Scenario{}, fmt.Errorf("%w: %s: stored id %q", ErrCorrupt, id, s.ID)
	}
	if err := s.Params.Validate(); err != nil {
		return domain.Scenario{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, id, err)
	}
	return s, nil
}
