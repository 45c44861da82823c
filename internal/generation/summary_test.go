package generation

import (
	"context"
	"testing"

	"github.com/jonathan/career-assessor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryReportGenerator_AlignedAndValid(t *testing.T) {
	raw := sampleRaw()

	report, err := NewSummaryReportGenerator(nil).Generate(context.Background(), raw, testProfile())

	require.NoError(t, err)
	require.NoError(t, report.Validate())
	require.NoError(t, report.ValidateAlignment(raw))
	assert.Contains(t, report.ProfileSummary, "Ada Lovelace")
	assert.Contains(t, report.ProfileSummary, "Personality (45/100)")
	assert.Equal(t, "numerical", report.Strengths[0].Title)
	assert.Equal(t, "Financial Analyst", report.CareerMatches[0].Title)
	assert.Equal(t, 20, report.CareerMatches[0].MatchPercent, "round(10/50*100)")
}

func TestSummaryReportGenerator_AllZero(t *testing.T) {
	raw := types.NewRawScores()
	profile := testProfile()
	profile.Name = ""

	report, err := NewSummaryReportGenerator(nil).Generate(context.Background(), raw, profile)

	require.NoError(t, err)
	require.NoError(t, report.Validate())
	assert.Len(t, report.Strengths, 1)
	assert.Contains(t, report.ProfileSummary, "The candidate")
	assert.Len(t, report.DetailedAnalyses, len(types.AllCategories()))
}

func TestSummaryReportGenerator_Deterministic(t *testing.T) {
	gen := NewSummaryReportGenerator(nil)
	a, err := gen.Generate(context.Background(), sampleRaw(), testProfile())
	require.NoError(t, err)
	b, err := gen.Generate(context.Background(), sampleRaw(), testProfile())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSummaryReportGenerator_NoCategories(t *testing.T) {
	_, err := NewSummaryReportGenerator(nil).Generate(context.Background(), types.RawScores{}, testProfile())
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "attention to detail", humanize(types.AttentionToDetail))
	assert.Equal(t, "logical", humanize(types.Logical))
}
