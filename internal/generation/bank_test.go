package generation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/career-assessor/internal/scoring"
	"github.com/jonathan/career-assessor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBank_Default(t *testing.T) {
	bank, err := LoadBank("")
	require.NoError(t, err)
	assert.Empty(t, types.ValidateQuestionSet(bank))

	perCategory := make(map[types.Category]int)
	for _, q := range bank {
		perCategory[q.Category]++
	}
	for cat, limit := range scoring.DefaultLimits() {
		assert.GreaterOrEqual(t, perCategory[cat], limit.Questions, "default bank covers the default plan for %s", cat)
	}
}

func TestLoadBank_FileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	content := `questions:
  - text: I enjoy group work.
    type: likert
    category: Personality
    sub_category: teamwork
    options:
      - {text: No, value: 1}
      - {text: Yes, value: 5}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	bank, err := LoadBank(path)
	require.NoError(t, err)
	require.Len(t, bank, 1)
	assert.Equal(t, 1, bank[0].ID)
	assert.Equal(t, types.Teamwork, bank[0].SubCategory)
}

func TestParseBank_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    any
	}{
		{"not yaml", "questions: [", &ParseError{}},
		{"empty", "questions: []", &ValidationError{}},
		{"bad subcategory", `questions:
  - {text: x, type: likert, category: Personality, sub_category: luck, options: [{text: a, value: 1}, {text: b, value: 2}]}
`, &ValidationError{}},
		{"two correct answers", `questions:
  - {text: x, type: multiple_choice, category: Aptitude, sub_category: logical, options: [{text: a, value: 5}, {text: b, value: 5}]}
`, &ValidationError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBank([]byte(tt.content))
			require.Error(t, err)
			assert.IsType(t, tt.want, err)
		})
	}
}

func TestLoadBank_MissingFile(t *testing.T) {
	_, err := LoadBank(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read question bank")
}

func TestBankQuestionGenerator_FollowsPlan(t *testing.T) {
	bank, err := LoadBank("")
	require.NoError(t, err)
	limits := scoring.DefaultLimits()

	questions, err := NewBankQuestionGenerator(bank, limits, nil).Generate(context.Background(), testProfile())

	require.NoError(t, err)
	assert.Len(t, questions, limits.TotalQuestions())
	assert.Empty(t, types.ValidateQuestionSet(questions))

	counts := make(map[types.Category]int)
	subs := make(map[types.Category]map[types.Subcategory]bool)
	for i, q := range questions {
		assert.Equal(t, i+1, q.ID)
		counts[q.Category]++
		if subs[q.Category] == nil {
			subs[q.Category] = make(map[types.Subcategory]bool)
		}
		subs[q.Category][q.SubCategory] = true
	}
	for cat, limit := range limits {
		assert.Equal(t, limit.Questions, counts[cat], cat)
	}
	assert.Len(t, subs[types.Personality], 4, "rotation covers every personality facet")
	assert.Len(t, subs[types.Aptitude], 5)
}

func TestBankQuestionGenerator_ShortBank(t *testing.T) {
	bank := []types.Question{{
		ID: 1, Text: "x", Type: types.Likert, Category: types.Personality, SubCategory: types.Openness,
		Options: []types.Option{{Text: "a", Value: 1}, {Text: "b", Value: 2}},
	}}
	limits := scoring.Limits{types.Personality: {Questions: 4, MaxPoints: 5}}

	questions, err := NewBankQuestionGenerator(bank, limits, nil).Generate(context.Background(), testProfile())

	require.NoError(t, err)
	assert.Len(t, questions, 1)
}

func TestBankQuestionGenerator_DoesNotShareOptions(t *testing.T) {
	bank, err := LoadBank("")
	require.NoError(t, err)
	gen := NewBankQuestionGenerator(bank, nil, nil)

	first, err := gen.Generate(context.Background(), testProfile())
	require.NoError(t, err)
	first[0].Options[0].Value = 99

	second, err := gen.Generate(context.Background(), testProfile())
	require.NoError(t, err)
	assert.NotEqual(t, 99, second[0].Options[0].Value)
}

func TestBankQuestionGenerator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBankQuestionGenerator(nil, nil, nil).Generate(ctx, testProfile())
	assert.ErrorIs(t, err, context.Canceled)
}
