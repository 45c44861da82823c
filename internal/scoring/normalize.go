package scoring

import (
	"math"

	"github.com/jonathan/career-assessor/internal/types"
)

// CategoryLimit is the fixed question allocation and per-question ceiling for a category.
type CategoryLimit struct {
	Questions int `json:"questions" mapstructure:"questions"`
	MaxPoints int `json:"max_points" mapstructure:"max_points"`
}

// Max returns the highest achievable raw total for the category.
func (l CategoryLimit) Max() int {
	if l.Questions <= 0 || l.MaxPoints <= 0 {
		return 0
	}
	return l.Questions * l.MaxPoints
}

// Limits holds the configured maximum per category. The values are
// constants, not derived from the questions actually generated.
type Limits map[types.Category]CategoryLimit

// DefaultLimits returns the standard question plan: five points per
// question, 35 questions in total.
func DefaultLimits() Limits {
	return Limits{
		types.OrientationStyle:  {Questions: 8, MaxPoints: 5},
		types.Interest:          {Questions: 8, MaxPoints: 5},
		types.Personality:       {Questions: 4, MaxPoints: 5},
		types.Aptitude:          {Questions: 10, MaxPoints: 5},
		types.EmotionalQuotient: {Questions: 5, MaxPoints: 5},
	}
}

// TotalQuestions is the number of questions the plan expects.
func (l Limits) TotalQuestions() int {
	total := 0
	for _, limit := range l {
		if limit.Questions > 0 {
			total += limit.Questions
		}
	}
	return total
}

// Normalize scales each category's raw total against its configured maximum.
// Results are rounded half away from zero and clamped to [0, 100]. A
// category with no configured maximum normalizes to 0.
func Normalize(raw types.RawScores, limits Limits) types.Scores {
	scores := make(types.Scores, len(types.AllCategories()))
	for _, cat := range types.AllCategories() {
		total := 0.0
		for _, v := range raw[cat] {
			total += float64(v)
		}
		scores[cat] = normalizeTotal(total, limits[cat].Max())
	}
	return scores
}

// normalizeTotal works in float64 so oversized totals clamp instead of overflowing.
func normalizeTotal(total float64, maxTotal int) int {
	if maxTotal <= 0 {
		return 0
	}
	pct := math.Round(total / float64(maxTotal) * 100)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return int(pct)
	}
}
