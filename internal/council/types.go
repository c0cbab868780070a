// Package council implements the three-stage council orchestration engine:
// parallel answer collection, anonymized peer ranking with Borda
// aggregation, and chairman synthesis. Individual model failures degrade
// the result instead of aborting the run.
package council

// ModelAnswer is one council member's Stage 1 answer. Failed answers keep
// their model identity so the caller can show which members dropped out.
type ModelAnswer struct {
	Model            string `json:"model"`
	Response         string `json:"response,omitempty"`
	ReasoningDetails any    `json:"reasoning_details,omitempty"`
	Failed           bool   `json:"failed,omitempty"`
}

// RankingSubmission is one judge's Stage 2 peer review: the raw reply plus
// the label order recovered from it. ParsedRanking may be a subset of the
// known labels, or empty, when the judge's text could not be parsed.
type RankingSubmission struct {
	Model         string   `json:"model"`
	Ranking       string   `json:"ranking,omitempty"`
	ParsedRanking []string `json:"parsed_ranking"`
	Failed        bool     `json:"failed,omitempty"`
}

// AggregateRanking is one model's consensus standing after Borda scoring.
// Ranks are unique and contiguous from 1.
type AggregateRanking struct {
	Model         string `json:"model"`
	Score         int    `json:"score"`
	Rank          int    `json:"rank"`
	RankingsCount int    `json:"rankings_count"`
}

// ChairmanSynthesis is the Stage 3 final answer. A failed synthesis still
// completes the run; a degraded answer beats none.
type ChairmanSynthesis struct {
	Model            string `json:"model"`
	Response         string `json:"response,omitempty"`
	ReasoningDetails any    `json:"reasoning_details,omitempty"`
	Failed           bool   `json:"failed,omitempty"`
}

// RunResult is the full artifact of one pipeline execution. The engine
// holds no reference to it after Run returns.
type RunResult struct {
	Stage1            []ModelAnswer
	Stage2            []RankingSubmission
	LabelToModel      map[string]string
	AggregateRankings []AggregateRanking
	Stage3            ChairmanSynthesis
	Title             string
}

// Metadata is the de-anonymization and consensus block attached to
// responses and stage2_complete events.
type Metadata struct {
	LabelToModel      map[string]string  `json:"label_to_model"`
	AggregateRankings []AggregateRanking `json:"aggregate_rankings"`
}
