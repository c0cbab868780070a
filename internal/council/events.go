package council

// Progress event types, in the order a run emits them. Per-model response
// events within a stage arrive in completion order; everything else is
// strictly sequenced.
const (
	EventStage1Start    = "stage1_start"
	EventStage1Response = "stage1_response"
	EventStage1Complete = "stage1_complete"
	EventStage2Start    = "stage2_start"
	EventStage2Response = "stage2_response"
	EventStage2Complete = "stage2_complete"
	EventStage3Start    = "stage3_start"
	EventStage3Complete = "stage3_complete"
	EventTitleComplete  = "title_complete"
	EventComplete       = "complete"
	EventError          = "error"
)

// Event is one progress frame delivered to a live consumer.
type Event struct {
	Type     string         `json:"type"`
	Models   []string       `json:"models,omitempty"`
	Data     any            `json:"data,omitempty"`
	Metadata *EventMetadata `json:"metadata,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// EventMetadata carries the anonymization map and, once Stage 2 is done,
// the aggregate rankings.
type EventMetadata struct {
	LabelToModel      map[string]string  `json:"label_to_model,omitempty"`
	AggregateRankings []AggregateRanking `json:"aggregate_rankings,omitempty"`
}

// EmitFunc receives progress events during a run. A nil EmitFunc runs the
// pipeline in batch mode with no event delivery.
type EmitFunc func(Event)
