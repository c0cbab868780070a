package config

// ReasoningOverride is a per-model reasoning setting. A nil Value disables
// the reasoning parameter for that model even when a default effort is set.
type ReasoningOverride struct {
	ParamName string `json:"param_name,omitempty"`
	Value     any    `json:"value"`
}

// ReasoningParam is a resolved reasoning setting ready to be merged into an
// outbound request payload.
type ReasoningParam struct {
	Name  string
	Value any
}

// Snapshot is an immutable view of the runtime configuration, captured once
// at the start of a council run. A config update mid-run never affects an
// in-flight pipeline.
type Snapshot struct {
	CouncilModels          []string                      `json:"council_models"`
	ChairmanModel          string                        `json:"chairman_model"`
	DefaultReasoningEffort string                        `json:"default_reasoning_effort"`
	ModelReasoningConfig   map[string]*ReasoningOverride `json:"model_reasoning_config"`
}

// ReasoningFor resolves the reasoning parameter for a model. Resolution
// order: explicit per-model override (a nil value means explicitly
// disabled), then the global default effort, then none.
func (s Snapshot) ReasoningFor(model string) *ReasoningParam {
	if override, ok := s.ModelReasoningConfig[model]; ok {
		if override == nil || override.Value == nil {
			return nil
		}
		name := override.ParamName
		if name == "" {
			name = "reasoning_effort"
		}
		return &ReasoningParam{Name: name, Value: override.Value}
	}
	if s.DefaultReasoningEffort != "" {
		return &ReasoningParam{Name: "reasoning_effort", Value: s.DefaultReasoningEffort}
	}
	return nil
}

// clone returns a deep copy so callers can never mutate the manager's state
// through a snapshot.
func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		ChairmanModel:          s.ChairmanModel,
		DefaultReasoningEffort: s.DefaultReasoningEffort,
		CouncilModels:          append([]string(nil), s.CouncilModels...),
	}
	if s.ModelReasoningConfig != nil {
		out.ModelReasoningConfig = make(map[string]*ReasoningOverride, len(s.ModelReasoningConfig))
		for model, override := range s.ModelReasoningConfig {
			if override == nil {
				out.ModelReasoningConfig[model] = nil
				continue
			}
			copied := *override
			out.ModelReasoningConfig[model] = &copied
		}
	}
	return out
}
