// Package scoring folds answers into raw category scores and normalizes them to a 0-100 scale.
package scoring

import "github.com/jonathan/career-assessor/internal/types"

// Aggregate sums answer values into the (category, subcategory) bucket of
// the answered question. Answers whose question is unknown, or whose
// question names a subcategory outside its category, are skipped. Every
// taxonomy pair is present in the result. Duplicate answers are all summed.
func Aggregate(answers []types.Answer, questions []types.Question) types.RawScores {
	raw := types.NewRawScores()

	byID := make(map[int]*types.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	for _, answer := range answers {
		q, ok := byID[answer.QuestionID]
		if !ok {
			continue
		}
		// Add refuses pairs outside the taxonomy.
		raw.Add(q.Category, q.SubCategory, answer.Value)
	}

	return raw
}
