package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Update carries a partial configuration change. Nil fields are left
// untouched so a PUT can change a single setting.
type Update struct {
	CouncilModels          *[]string                      `json:"council_models"`
	ChairmanModel          *string                        `json:"chairman_model"`
	DefaultReasoningEffort *string                        `json:"default_reasoning_effort"`
	ModelReasoningConfig   *map[string]*ReasoningOverride `json:"model_reasoning_config"`
}

// Manager owns the persisted runtime configuration. It hands out immutable
// snapshots and validates every update before accepting it, so a running
// pipeline always holds a valid configuration.
type Manager struct {
	mu      sync.RWMutex
	path    string
	current Snapshot
}

// NewManager loads configuration from path (a JSON file), falling back to
// defaults for anything missing or unreadable.
func NewManager(path string) *Manager {
	m := &Manager{path: path, current: defaultSnapshot()}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to read config %s: %v", path, err)
		}
		return m
	}

	var loaded Snapshot
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("Warning: invalid config %s: %v", path, err)
		return m
	}

	// Merge field by field so a partial file still gets defaults.
	if len(loaded.CouncilModels) > 0 {
		m.current.CouncilModels = loaded.CouncilModels
	}
	if loaded.ChairmanModel != "" {
		m.current.ChairmanModel = loaded.ChairmanModel
	}
	if loaded.DefaultReasoningEffort != "" {
		m.current.DefaultReasoningEffort = loaded.DefaultReasoningEffort
	}
	if loaded.ModelReasoningConfig != nil {
		m.current.ModelReasoningConfig = loaded.ModelReasoningConfig
	}

	if err := validate(m.current); err != nil {
		log.Printf("Warning: config %s rejected (%v), using defaults", path, err)
		m.current = defaultSnapshot()
	}
	return m
}

func defaultSnapshot() Snapshot {
	return Snapshot{
		CouncilModels:          append([]string(nil), DefaultCouncilModels...),
		ChairmanModel:          DefaultChairmanModel,
		DefaultReasoningEffort: DefaultReasoningEffort,
		ModelReasoningConfig:   map[string]*ReasoningOverride{},
	}
}

// Snapshot returns an immutable copy of the current configuration.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.clone()
}

// Apply validates and persists a partial update, returning the resulting
// configuration. Invalid updates are rejected without touching state.
func (m *Manager) Apply(update Update) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.current.clone()
	if update.CouncilModels != nil {
		next.CouncilModels = append([]string(nil), (*update.CouncilModels)...)
	}
	if update.ChairmanModel != nil {
		next.ChairmanModel = *update.ChairmanModel
	}
	if update.DefaultReasoningEffort != nil {
		next.DefaultReasoningEffort = *update.DefaultReasoningEffort
	}
	if update.ModelReasoningConfig != nil {
		next.ModelReasoningConfig = *update.ModelReasoningConfig
	}

	if err := validate(next); err != nil {
		return Snapshot{}, err
	}
	if err := m.save(next); err != nil {
		return Snapshot{}, err
	}

	m.current = next
	return next.clone(), nil
}

func (m *Manager) save(s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// validate enforces the configuration invariants at update time, never at
// pipeline-run time.
func validate(s Snapshot) error {
	if len(s.CouncilModels) == 0 {
		return fmt.Errorf("council_models cannot be empty")
	}
	for _, model := range s.CouncilModels {
		if model == "" {
			return fmt.Errorf("council_models cannot contain empty entries")
		}
	}
	if s.ChairmanModel == "" {
		return fmt.Errorf("chairman_model cannot be empty")
	}
	for _, model := range s.CouncilModels {
		if model == s.ChairmanModel {
			return nil
		}
	}
	return fmt.Errorf("chairman_model must be one of the council_models")
}
