package council

import "fmt"

// assignLabels gives each successful Stage 1 answer an anonymized label
// ("Response A", "Response B", ...) in council-list order, so label
// assignment is deterministic no matter in which order answers arrived.
// Judges only ever see labels; the returned map is the single source of
// truth for de-anonymization and is never sent to a model.
func assignLabels(councilModels []string, answers []ModelAnswer) (labels []string, labelToModel map[string]string) {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		if !a.Failed {
			answered[a.Model] = true
		}
	}

	labelToModel = make(map[string]string)
	for _, model := range councilModels {
		if !answered[model] {
			continue
		}
		label := fmt.Sprintf("Response %c", rune('A'+len(labels)))
		labels = append(labels, label)
		labelToModel[label] = model
	}
	return labels, labelToModel
}
