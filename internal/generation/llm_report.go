package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/career-assessor/internal/llm"
	"github.com/jonathan/career-assessor/internal/prompts"
	"github.com/jonathan/career-assessor/internal/schemas"
	"github.com/jonathan/career-assessor/internal/scoring"
	"github.com/jonathan/career-assessor/internal/types"
	"go.uber.org/zap"
)

// LLMReportGenerator asks an LLM for a career report grounded in the scores.
type LLMReportGenerator struct {
	client llm.Client
	opts   LLMOptions
}

// NewLLMReportGenerator creates a generator that uses TierAdvanced unless overridden.
func NewLLMReportGenerator(client llm.Client, opts LLMOptions) *LLMReportGenerator {
	return &LLMReportGenerator{client: client, opts: opts.withDefaults(llm.TierAdvanced)}
}

// Generate returns a report whose detailed analyses cover exactly the categories of raw.
func (g *LLMReportGenerator) Generate(ctx context.Context, raw types.RawScores, profile types.UserProfile) (*types.ReportData, error) {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, &ParseError{Message: "failed to encode profile", Cause: err}
	}
	rawJSON, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, &ParseError{Message: "failed to encode raw scores", Cause: err}
	}

	template, err := prompts.Get("assessment.json", "generate-report")
	if err != nil {
		return nil, &APICallError{Message: "failed to load prompt", Cause: err}
	}
	prompt := prompts.Format(template, map[string]string{
		"Profile":    string(profileJSON),
		"RawScores":  string(rawJSON),
		"Scores":     describeScores(scoring.Normalize(raw, g.opts.Limits)),
		"Language":   resolveLanguage(profile, g.opts.Language),
		"Categories": describeCategories(raw),
	})

	response, err := g.client.GenerateJSON(ctx, prompt, g.opts.Tier)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate report", Cause: err}
	}
	response = llm.CleanJSONBlock(response)

	var report types.ReportData
	if err := json.Unmarshal([]byte(response), &report); err != nil {
		return nil, &ParseError{Message: "failed to parse report JSON", Cause: err}
	}
	if err := checkSchema(schemas.Report, response, "report"); err != nil {
		return nil, err
	}
	if err := report.Validate(); err != nil {
		return nil, &ValidationError{Field: "report", Message: err.Error(), Cause: err}
	}
	if err := report.ValidateAlignment(raw); err != nil {
		return nil, &ValidationError{Field: "detailed_analyses", Message: err.Error(), Cause: err}
	}

	g.opts.Logger.Debug("report generated",
		zap.Int("career_matches", len(report.CareerMatches)),
		zap.Int("analyses", len(report.DetailedAnalyses)))
	return &report, nil
}

func describeScores(scores types.Scores) string {
	var sb strings.Builder
	for _, cat := range types.AllCategories() {
		fmt.Fprintf(&sb, "- %s: %d\n", cat, scores[cat])
	}
	return strings.TrimRight(sb.String(), "\n")
}

// describeCategories lists the categories present in raw in display order.
func describeCategories(raw types.RawScores) string {
	names := make([]string, 0, len(raw))
	for _, cat := range types.AllCategories() {
		if _, ok := raw[cat]; ok {
			names = append(names, string(cat))
		}
	}
	return strings.Join(names, ", ")
}
