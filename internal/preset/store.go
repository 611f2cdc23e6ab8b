package preset

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	stateObject   = "presets"
	stateProperty = "state"
)

// State is what the store persists between runs.
type State struct {
	Last string `yaml:"last"`
}

// Store remembers the last applied preset. A nil manager keeps the state in
// memory only.
type Store struct {
	manager *gdata.Manager
	state   State
}

// OpenStore opens persistent storage for appName. When storage cannot be
// opened the returned store works in memory and the error is reported.
func OpenStore(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewStore(nil), fmt.Errorf("failed to open preset storage: %w", err)
	}
	return NewStore(m), nil
}

// NewStore wraps a gdata manager, which may be nil.
func NewStore(m *gdata.Manager) *Store {
	s := &Store{manager: m}
	if err := s.Load(); err != nil {
		log.Printf("[preset] warning: %v (starting fresh)", err)
	}
	return s
}

// Load reads the persisted state.
func (s *Store) Load() error {
	s.state = State{}
	if s.manager == nil || !s.manager.ObjectPropExists(stateObject, stateProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(stateObject, stateProperty)
	if err != nil {
		return fmt.Errorf("failed to load preset state: %w", err)
	}
	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("failed to unmarshal preset state: %w", err)
	}
	s.state = st
	return nil
}

// Last returns the most recently remembered preset name.
func (s *Store) Last() (string, bool) {
	if s == nil || s.state.Last == "" {
		return "", false
	}
	return s.state.Last, true
}

// Remember records name as the last preset and saves it.
func (s *Store) Remember(name string) error {
	if s == nil {
		return nil
	}
	s.state.Last = name
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("failed to marshal preset state: %w", err)
	}
	if err := s.manager.SaveObjectProp(stateObject, stateProperty, data); err != nil {
		return fmt.Errorf("failed to save preset state: %w", err)
	}
	return nil
}
