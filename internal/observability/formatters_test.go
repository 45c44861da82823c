package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/career-assessor/internal/orchestrator"
	"github.com/jonathan/career-assessor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintQuestion(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	chosen := 4
	p.PrintQuestion(orchestrator.QuestionView{
		Index:    2,
		Total:    35,
		Answered: 2,
		Question: types.Question{
			ID:          3,
			Text:        "I stay calm when plans change at the last minute.",
			Type:        types.Likert,
			Category:    types.Personality,
			SubCategory: types.Resilience,
			Options: []types.Option{
				{Text: "Strongly disagree", Value: 1},
				{Text: "Agree", Value: 4},
			},
		},
		Answer: &chosen,
	})
	output := buf.String()

	assert.Contains(t, output, "QUESTION 3/35 · Personality")
	assert.Contains(t, output, "I stay calm")
	assert.Contains(t, output, "  1) Strongly disagree")
	assert.Contains(t, output, "* 2) Agree")
	assert.Contains(t, output, "Answered 2 of 35")
}

func TestPrintScores(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScores(types.Scores{
		types.OrientationStyle: 100,
		types.Personality:      45,
		types.Aptitude:         0,
	})
	output := buf.String()

	assert.Contains(t, output, "SCORES")
	assert.Contains(t, output, strings.Repeat("█", barWidth)+" 100%")
	assert.Contains(t, output, strings.Repeat("█", 9)+strings.Repeat("░", 11)+"  45%")
	assert.Contains(t, output, strings.Repeat("░", barWidth)+"   0%")
	assert.NotContains(t, output, "Interest")

	// Category order is fixed.
	assert.Less(t, strings.Index(output, "OrientationStyle"), strings.Index(output, "Personality"))
}

func TestPrintScores_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintScores(nil)
	assert.Empty(t, buf.String())
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &types.ReportData{
		ProfileSummary: "Analytical and curious, with a strong preference for structured problem solving.",
		Strengths:      []types.Strength{{Title: "Numerical reasoning"}},
		CareerMatches: []types.CareerMatch{
			{Title: "Data Analyst", MatchPercent: 88},
			{Title: "Actuary", MatchPercent: 81},
		},
		DevelopmentPlan: []types.DevelopmentStep{
			{Area: "Teamwork", Actions: []string{"Join a study group"}},
		},
		DetailedAnalyses: []types.CategoryAnalysis{
			{Category: types.Aptitude, Summary: "Strong numerical results."},
		},
		ConcludingRemarks: "Good luck!",
	}

	p.PrintReport(report)
	p.PrintAnalyses(report)
	output := buf.String()

	assert.Contains(t, output, "CAREER REPORT")
	assert.Contains(t, output, "Analytical and curious")
	assert.Contains(t, output, "• Numerical reasoning")
	assert.Contains(t, output, "• Data Analyst (88%)")
	assert.Contains(t, output, "- Join a study group")
	assert.Contains(t, output, "Good luck!")
	assert.Contains(t, output, "DETAILED ANALYSIS")
	assert.Contains(t, output, "Strong numerical results.")
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(nil)
	p.PrintAnalyses(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBox_LinesAreAligned(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScores(types.Scores{types.Interest: 50})
	p.PrintReport(&types.ReportData{
		ProfileSummary: strings.Repeat("averyveryverylongwordthatcannotwrap", 3),
	})

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), "line %q", line)
	}
}

func TestPrintTransition(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTransition(orchestrator.Transition{From: orchestrator.Testing, To: orchestrator.Scoring, Reason: "all questions answered"})
	p.PrintTransition(orchestrator.Transition{From: orchestrator.GeneratingQuestions, To: orchestrator.Failed, Reason: "quota"})
	p.PrintError("question generation failed")

	assert.Equal(t,
		"→ scoring (all questions answered)\n→ failed (quota)\n✗ question generation failed\n",
		buf.String(), "no colour codes when not writing to a terminal")
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "   ", 10, nil},
		{"fits", "hello world", 20, []string{"hello world"}},
		{"breaks", "one two three four", 9, []string{"one two", "three", "four"}},
		{"long word kept", "supercalifragilistic", 5, []string{"supercalifragilistic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrap(tt.text, tt.width))
		})
	}
}
