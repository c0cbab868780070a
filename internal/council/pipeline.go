package council

import (
	"context"
	"fmt"
	"log"
	"strings"

	"llm-council/internal/config"
	"llm-council/internal/openrouter"
)

// Gateway is the single-model call boundary the pipeline drives. A
// concrete implementation is *openrouter.Client.
type Gateway interface {
	Complete(ctx context.Context, model string, messages []openrouter.Message, reasoning *config.ReasoningParam) (*openrouter.Reply, error)
}

// State is the pipeline's position in the three-stage sequence.
type State int

const (
	StateInit State = iota
	StateStage1Running
	StateStage1Done
	StateStage2Running
	StateStage2Done
	StateStage3Running
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateStage1Running:
		return "STAGE1_RUNNING"
	case StateStage1Done:
		return "STAGE1_DONE"
	case StateStage2Running:
		return "STAGE2_RUNNING"
	case StateStage2Done:
		return "STAGE2_DONE"
	case StateStage3Running:
		return "STAGE3_RUNNING"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// Query is one user question plus optional image attachments.
type Query struct {
	Text   string
	Images []string

	// GenerateTitle runs the title side task concurrently with the
	// stages; its result joins right before the run completes.
	GenerateTitle bool
}

// Pipeline executes one council run against an immutable configuration
// snapshot. A Pipeline is single-use: create one per query.
type Pipeline struct {
	gw    Gateway
	cfg   config.Snapshot
	opts  AggregateOptions
	state State
}

// New creates a pipeline bound to a configuration snapshot captured for
// this run.
func New(gw Gateway, cfg config.Snapshot) *Pipeline {
	return &Pipeline{gw: gw, cfg: cfg}
}

// WithAggregateOptions overrides consensus scoring options for this run.
func (p *Pipeline) WithAggregateOptions(opts AggregateOptions) *Pipeline {
	p.opts = opts
	return p
}

// State reports the pipeline's current stage.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes the full three-stage council process, delivering progress
// events through emit (which may be nil for batch use). Individual model
// failures are absorbed into the result; Run only returns an error for
// orchestration failures such as caller cancellation, and then the
// pipeline ends in StateFailed with no result.
func (p *Pipeline) Run(ctx context.Context, q Query, emit EmitFunc) (*RunResult, error) {
	if emit == nil {
		emit = func(Event) {}
	}
	if p.state != StateInit {
		return nil, fmt.Errorf("pipeline already ran (state %s)", p.state)
	}

	// Title side task does not gate any stage.
	var titleCh chan string
	if q.GenerateTitle {
		titleCh = make(chan string, 1)
		go func() {
			titleCh <- p.generateTitle(ctx, q.Text)
		}()
	}

	// Stage 1: every council member answers independently.
	p.state = StateStage1Running
	emit(Event{Type: EventStage1Start, Models: p.cfg.CouncilModels})

	userContent := openrouter.UserContent(q.Text, q.Images)
	answerMessages := []openrouter.Message{{Role: "user", Content: userContent}}

	var stage1 []ModelAnswer
	for a := range p.dispatchAll(ctx, answerMessages) {
		answer := ModelAnswer{Model: a.Model}
		if a.Err != nil {
			log.Printf("Stage 1: %s failed: %v", a.Model, a.Err)
			answer.Failed = true
		} else {
			answer.Response = a.Reply.Content
			answer.ReasoningDetails = a.Reply.ReasoningDetails
		}
		stage1 = append(stage1, answer)
		emit(Event{Type: EventStage1Response, Data: answer})
	}
	p.state = StateStage1Done
	emit(Event{Type: EventStage1Complete, Data: stage1})

	if err := p.gate(ctx); err != nil {
		return nil, err
	}

	// Stage 2: peers judge the anonymized answers. The label map is built
	// only now so it reflects exactly the models that actually answered.
	p.state = StateStage2Running
	labels, labelToModel := assignLabels(p.cfg.CouncilModels, stage1)
	emit(Event{
		Type:     EventStage2Start,
		Models:   p.cfg.CouncilModels,
		Metadata: &EventMetadata{LabelToModel: labelToModel},
	})

	rankingPrompt := buildRankingPrompt(q.Text, labels, labelToModel, stage1)
	rankingMessages := []openrouter.Message{{Role: "user", Content: openrouter.UserContent(rankingPrompt, q.Images)}}

	var stage2 []RankingSubmission
	for a := range p.dispatchAll(ctx, rankingMessages) {
		sub := RankingSubmission{Model: a.Model, ParsedRanking: []string{}}
		if a.Err != nil {
			log.Printf("Stage 2: %s failed: %v", a.Model, a.Err)
			sub.Failed = true
		} else {
			sub.Ranking = a.Reply.Content
			sub.ParsedRanking = ParseRanking(a.Reply.Content, labels)
		}
		stage2 = append(stage2, sub)
		emit(Event{Type: EventStage2Response, Data: sub})
	}

	aggregate := Aggregate(stage2, labelToModel, p.cfg.CouncilModels, p.opts)
	p.state = StateStage2Done
	emit(Event{
		Type:     EventStage2Complete,
		Data:     stage2,
		Metadata: &EventMetadata{LabelToModel: labelToModel, AggregateRankings: aggregate},
	})

	if err := p.gate(ctx); err != nil {
		return nil, err
	}

	// Stage 3: single chairman call. A chairman failure degrades the
	// synthesis but still completes the run.
	p.state = StateStage3Running
	emit(Event{Type: EventStage3Start})

	chairmanPrompt := buildChairmanPrompt(q.Text, stage1, stage2, aggregate)
	chairmanMessages := []openrouter.Message{{Role: "user", Content: openrouter.UserContent(chairmanPrompt, q.Images)}}

	stage3 := ChairmanSynthesis{Model: p.cfg.ChairmanModel}
	chairmanReply, err := p.gw.Complete(ctx, p.cfg.ChairmanModel, chairmanMessages, p.cfg.ReasoningFor(p.cfg.ChairmanModel))
	if err != nil {
		log.Printf("Stage 3: chairman %s failed: %v", p.cfg.ChairmanModel, err)
		stage3.Failed = true
	} else {
		stage3.Response = chairmanReply.Content
		stage3.ReasoningDetails = chairmanReply.ReasoningDetails
	}
	emit(Event{Type: EventStage3Complete, Data: stage3})

	// Join the title side task right before reporting done.
	var title string
	if titleCh != nil {
		title = <-titleCh
		if title != "" {
			emit(Event{Type: EventTitleComplete, Data: map[string]string{"title": title}})
		}
	}

	p.state = StateDone
	return &RunResult{
		Stage1:            stage1,
		Stage2:            stage2,
		LabelToModel:      labelToModel,
		AggregateRankings: aggregate,
		Stage3:            stage3,
		Title:             title,
	}, nil
}

// dispatchAll fans one message list out to every council model.
func (p *Pipeline) dispatchAll(ctx context.Context, messages []openrouter.Message) <-chan arrival {
	return dispatch(ctx, p.cfg.CouncilModels, func(ctx context.Context, model string) (*reply, error) {
		r, err := p.gw.Complete(ctx, model, messages, p.cfg.ReasoningFor(model))
		if err != nil {
			return nil, err
		}
		return &reply{Content: r.Content, ReasoningDetails: r.ReasoningDetails}, nil
	})
}

// gate blocks stage advancement once the caller has gone away. In-flight
// calls of the finished stage already ran to completion; no new stage
// starts.
func (p *Pipeline) gate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		p.state = StateFailed
		return fmt.Errorf("council run aborted: %w", err)
	}
	return nil
}

// generateTitle produces a short conversation title on a tight deadline.
// Failures yield an empty title; the caller decides the fallback.
func (p *Pipeline) generateTitle(ctx context.Context, userQuery string) string {
	ctx, cancel := context.WithTimeout(ctx, config.TitleGenTimeout)
	defer cancel()

	messages := []openrouter.Message{{Role: "user", Content: buildTitlePrompt(userQuery)}}
	r, err := p.gw.Complete(ctx, config.TitleModel, messages, nil)
	if err != nil {
		log.Printf("Title generation failed: %v", err)
		return ""
	}

	title := strings.TrimSpace(r.Content)
	title = strings.Trim(title, "\"'")
	if len(title) > 50 {
		title = title[:47] + "..."
	}
	return title
}
