package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager(tempConfigPath(t))
	snap := m.Snapshot()

	if len(snap.CouncilModels) == 0 {
		t.Error("CouncilModels should not be empty")
	}
	if snap.ChairmanModel == "" {
		t.Error("ChairmanModel should not be empty")
	}
	found := false
	for _, model := range snap.CouncilModels {
		if model == snap.ChairmanModel {
			found = true
		}
	}
	if !found {
		t.Error("Default chairman must be a council member")
	}
}

func TestNewManagerLoadsAndMergesFile(t *testing.T) {
	path := tempConfigPath(t)
	data, _ := json.Marshal(map[string]any{
		"council_models": []string{"test/one", "test/two"},
		"chairman_model": "test/one",
	})
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	snap := NewManager(path).Snapshot()
	if len(snap.CouncilModels) != 2 || snap.CouncilModels[0] != "test/one" {
		t.Errorf("CouncilModels = %v", snap.CouncilModels)
	}
	if snap.ChairmanModel != "test/one" {
		t.Errorf("ChairmanModel = %q", snap.ChairmanModel)
	}
	// Missing fields fall back to defaults.
	if snap.DefaultReasoningEffort != DefaultReasoningEffort {
		t.Errorf("DefaultReasoningEffort = %q, want default", snap.DefaultReasoningEffort)
	}
}

func TestNewManagerRejectsInvalidFile(t *testing.T) {
	path := tempConfigPath(t)
	data, _ := json.Marshal(map[string]any{
		"council_models": []string{"test/one"},
		"chairman_model": "test/not-a-member",
	})
	os.WriteFile(path, data, 0644)

	snap := NewManager(path).Snapshot()
	if snap.ChairmanModel == "test/not-a-member" {
		t.Error("Invalid persisted config should fall back to defaults")
	}
}

func TestApplyPartialUpdate(t *testing.T) {
	m := NewManager(tempConfigPath(t))
	before := m.Snapshot()

	effort := "low"
	updated, err := m.Apply(Update{DefaultReasoningEffort: &effort})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if updated.DefaultReasoningEffort != "low" {
		t.Errorf("DefaultReasoningEffort = %q, want low", updated.DefaultReasoningEffort)
	}
	if len(updated.CouncilModels) != len(before.CouncilModels) {
		t.Error("Untouched fields must survive a partial update")
	}
}

func TestApplyValidation(t *testing.T) {
	m := NewManager(tempConfigPath(t))

	tests := []struct {
		name   string
		update Update
	}{
		{
			name:   "empty council",
			update: Update{CouncilModels: &[]string{}},
		},
		{
			name: "chairman not in council",
			update: Update{
				CouncilModels: &[]string{"test/a", "test/b"},
				ChairmanModel: strPtr("test/z"),
			},
		},
		{
			name:   "empty chairman",
			update: Update{ChairmanModel: strPtr("")},
		},
	}

	before := m.Snapshot()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Apply(tt.update); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}

	after := m.Snapshot()
	if after.ChairmanModel != before.ChairmanModel || len(after.CouncilModels) != len(before.CouncilModels) {
		t.Error("Rejected updates must not change state")
	}
}

func TestApplyPersists(t *testing.T) {
	path := tempConfigPath(t)
	m := NewManager(path)

	models := []string{"test/a", "test/b"}
	chairman := "test/b"
	if _, err := m.Apply(Update{CouncilModels: &models, ChairmanModel: &chairman}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	reloaded := NewManager(path).Snapshot()
	if reloaded.ChairmanModel != "test/b" || len(reloaded.CouncilModels) != 2 {
		t.Errorf("Reloaded config = %+v, want applied update", reloaded)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	m := NewManager(tempConfigPath(t))

	snap := m.Snapshot()
	snap.CouncilModels[0] = "mutated/model"
	snap.ModelReasoningConfig["mutated/model"] = &ReasoningOverride{Value: "high"}

	fresh := m.Snapshot()
	if fresh.CouncilModels[0] == "mutated/model" {
		t.Error("Snapshot mutation leaked into manager state")
	}
	if _, ok := fresh.ModelReasoningConfig["mutated/model"]; ok {
		t.Error("Snapshot map mutation leaked into manager state")
	}
}

func TestReasoningFor(t *testing.T) {
	snap := Snapshot{
		DefaultReasoningEffort: "medium",
		ModelReasoningConfig: map[string]*ReasoningOverride{
			"test/override": {ParamName: "thinking", Value: map[string]any{"budget": 8000}},
			"test/disabled": {Value: nil},
			"test/implied":  {Value: "xhigh"},
		},
	}

	t.Run("per-model override wins", func(t *testing.T) {
		p := snap.ReasoningFor("test/override")
		if p == nil || p.Name != "thinking" {
			t.Fatalf("ReasoningFor = %+v, want thinking override", p)
		}
	})

	t.Run("override param name defaults to reasoning_effort", func(t *testing.T) {
		p := snap.ReasoningFor("test/implied")
		if p == nil || p.Name != "reasoning_effort" || p.Value != "xhigh" {
			t.Fatalf("ReasoningFor = %+v", p)
		}
	})

	t.Run("explicit disable beats the default", func(t *testing.T) {
		if p := snap.ReasoningFor("test/disabled"); p != nil {
			t.Fatalf("ReasoningFor = %+v, want nil", p)
		}
	})

	t.Run("global default applies to unconfigured models", func(t *testing.T) {
		p := snap.ReasoningFor("test/other")
		if p == nil || p.Name != "reasoning_effort" || p.Value != "medium" {
			t.Fatalf("ReasoningFor = %+v, want medium default", p)
		}
	})

	t.Run("no default means no parameter", func(t *testing.T) {
		bare := Snapshot{}
		if p := bare.ReasoningFor("test/any"); p != nil {
			t.Fatalf("ReasoningFor = %+v, want nil", p)
		}
	})
}

func strPtr(s string) *string { return &s }
