package council

import "sort"

// AggregateOptions tunes consensus scoring.
type AggregateOptions struct {
	// ExcludeSelfVotes drops the points a judge awards to its own Stage 1
	// answer. Off by default: a judge may rank its own (anonymized) answer.
	ExcludeSelfVotes bool
}

// Aggregate combines all non-failed ranking submissions into a consensus
// ordering using positional (Borda) scoring: with K labelled candidates,
// the label at position i of a submission earns K-i points, and a
// candidate absent from a submission earns 0 from it. Candidates are
// ranked by descending total score; ties keep council-list order so
// identical inputs always produce identical output.
func Aggregate(submissions []RankingSubmission, labelToModel map[string]string, councilModels []string, opts AggregateOptions) []AggregateRanking {
	k := len(labelToModel)

	scores := make(map[string]int, k)
	counts := make(map[string]int, k)
	for _, sub := range submissions {
		if sub.Failed {
			continue
		}
		for position, label := range sub.ParsedRanking {
			model, ok := labelToModel[label]
			if !ok {
				continue
			}
			if opts.ExcludeSelfVotes && model == sub.Model {
				continue
			}
			scores[model] += k - position
			counts[model]++
		}
	}

	// Candidates are the labelled models, seeded in council-list order so
	// the stable sort resolves ties deterministically.
	candidate := make(map[string]bool, k)
	for _, model := range labelToModel {
		candidate[model] = true
	}

	aggregate := make([]AggregateRanking, 0, k)
	for _, model := range councilModels {
		if !candidate[model] {
			continue
		}
		candidate[model] = false
		aggregate = append(aggregate, AggregateRanking{
			Model:         model,
			Score:         scores[model],
			RankingsCount: counts[model],
		})
	}

	sort.SliceStable(aggregate, func(i, j int) bool {
		return aggregate[i].Score > aggregate[j].Score
	})
	for i := range aggregate {
		aggregate[i].Rank = i + 1
	}
	return aggregate
}
