package scoring

import (
	"math"
	"testing"

	"github.com/jonathan/career-assessor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNormalize_PersonalityScenario(t *testing.T) {
	raw := types.NewRawScores()
	raw.Add(types.Personality, types.Resilience, 4)
	raw.Add(types.Personality, types.Teamwork, 5)

	scores := Normalize(raw, DefaultLimits())

	assert.Equal(t, 45, scores[types.Personality], "round(9/20*100)")
}

func TestNormalize_AllCategoriesPresent(t *testing.T) {
	scores := Normalize(types.NewRawScores(), DefaultLimits())
	assert.Len(t, scores, len(types.AllCategories()))
	for _, cat := range types.AllCategories() {
		assert.Equal(t, 0, scores[cat])
	}
}

func TestNormalize_Rounding(t *testing.T) {
	tests := []struct {
		name  string
		total int
		max   int
		want  int
	}{
		{"exact", 10, 20, 50},
		{"half rounds up", 1, 8, 13}, // 12.5
		{"below half rounds down", 1, 3, 33},
		{"above half rounds up", 2, 3, 67},
		{"full", 20, 20, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTotal(float64(tt.total), tt.max))
		})
	}
}

func TestNormalize_ZeroMaxIsZero(t *testing.T) {
	raw := types.NewRawScores()
	raw.Add(types.Aptitude, types.Logical, 50)

	limits := DefaultLimits()
	limits[types.Aptitude] = CategoryLimit{Questions: 0, MaxPoints: 5}

	scores := Normalize(raw, limits)
	assert.Equal(t, 0, scores[types.Aptitude])

	// Missing limits behave the same way.
	scores = Normalize(raw, Limits{})
	assert.Equal(t, 0, scores[types.Aptitude])
}

func TestNormalize_ClampsAdversarialValues(t *testing.T) {
	raw := types.NewRawScores()
	for _, cat := range types.AllCategories() {
		for _, sub := range types.Subcategories(cat) {
			raw[cat][sub] = math.MaxInt
		}
	}
	raw[types.Personality][types.Resilience] = math.MinInt
	raw[types.Personality][types.Teamwork] = math.MinInt

	for _, cat := range types.AllCategories() {
		score := Normalize(raw, DefaultLimits())[cat]
		assert.GreaterOrEqual(t, score, 0, cat)
		assert.LessOrEqual(t, score, 100, cat)
	}
	assert.Equal(t, 100, Normalize(raw, DefaultLimits())[types.Aptitude])
}

func TestNormalize_NegativeTotalsClampToZero(t *testing.T) {
	raw := types.NewRawScores()
	raw.Add(types.Interest, types.Social, -30)
	assert.Equal(t, 0, Normalize(raw, DefaultLimits())[types.Interest])
}

func TestLimits(t *testing.T) {
	limits := DefaultLimits()
	assert.Equal(t, 35, limits.TotalQuestions())
	assert.Equal(t, 20, limits[types.Personality].Max())
	assert.Equal(t, 0, CategoryLimit{Questions: 3, MaxPoints: -1}.Max())
}
