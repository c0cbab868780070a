package council

import (
	"fmt"
	"strings"
)

// buildRankingPrompt presents each successful Stage 1 answer under its
// anonymized label, in label order, and instructs the judge to rank all
// labels best to worst in a machine-recoverable format.
func buildRankingPrompt(userQuery string, labels []string, labelToModel map[string]string, answers []ModelAnswer) string {
	answerByModel := make(map[string]string, len(answers))
	for _, a := range answers {
		if !a.Failed {
			answerByModel[a.Model] = a.Response
		}
	}

	var responsesText strings.Builder
	for _, label := range labels {
		responsesText.WriteString(fmt.Sprintf("%s:\n%s\n\n", label, answerByModel[labelToModel[label]]))
	}

	return fmt.Sprintf(`You are evaluating different responses to the following question:

Question: %s

Here are the responses from different models (anonymized):

%s

Your task:
1. First, evaluate each response individually. For each response, explain what it does well and what it does poorly.
2. Then, at the very end of your response, provide a final ranking.

IMPORTANT: Your final ranking MUST be formatted EXACTLY as follows:
- Start with the line "FINAL RANKING:" (all caps, with colon)
- Then list the responses from best to worst as a numbered list
- Each line should be: number, period, space, then ONLY the response label (e.g., "1. Response A")
- Do not add any other text or explanations in the ranking section

Example of the correct format for your ENTIRE response:

Response A provides good detail on X but misses Y...
Response B is accurate but lacks depth on Z...
Response C offers the most comprehensive answer...

FINAL RANKING:
1. Response C
2. Response A
3. Response B

Now provide your evaluation and ranking:`, userQuery, responsesText.String())
}

// buildChairmanPrompt gives the chairman the original question, every
// successful answer with its author revealed, and the consensus ranking.
func buildChairmanPrompt(userQuery string, answers []ModelAnswer, submissions []RankingSubmission, aggregate []AggregateRanking) string {
	var stage1Text strings.Builder
	for _, a := range answers {
		if a.Failed {
			continue
		}
		stage1Text.WriteString(fmt.Sprintf("Model: %s\nResponse: %s\n\n", a.Model, a.Response))
	}

	var stage2Text strings.Builder
	for _, sub := range submissions {
		if sub.Failed {
			continue
		}
		stage2Text.WriteString(fmt.Sprintf("Model: %s\nRanking: %s\n\n", sub.Model, sub.Ranking))
	}

	var aggregateText strings.Builder
	for _, r := range aggregate {
		aggregateText.WriteString(fmt.Sprintf("%d. %s (score %d from %d rankings)\n", r.Rank, r.Model, r.Score, r.RankingsCount))
	}

	return fmt.Sprintf(`You are the Chairman of an LLM Council. Multiple AI models have provided responses to a user's question, and then ranked each other's responses.

Original Question: %s

STAGE 1 - Individual Responses:
%s

STAGE 2 - Peer Rankings:
%s

AGGREGATE RANKING (peer consensus, best first):
%s

Your task as Chairman is to synthesize all of this information into a single, comprehensive, accurate answer to the user's original question. Consider:
- The individual responses and their insights
- The peer rankings and what they reveal about response quality
- Any patterns of agreement or disagreement

Provide a clear, well-reasoned final answer that represents the council's collective wisdom:`, userQuery, stage1Text.String(), stage2Text.String(), aggregateText.String())
}

// buildTitlePrompt asks for a 3-5 word conversation title.
func buildTitlePrompt(userQuery string) string {
	return fmt.Sprintf(`Generate a very short title (3-5 words maximum) that summarizes the following question.
The title should be concise and descriptive. Do not use quotes or punctuation in the title.

Question: %s

Title:`, userQuery)
}
