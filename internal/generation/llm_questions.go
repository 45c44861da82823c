package generation

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jonathan/career-assessor/internal/llm"
	"github.com/jonathan/career-assessor/internal/prompts"
	"github.com/jonathan/career-assessor/internal/schemas"
	"github.com/jonathan/career-assessor/internal/scoring"
	"github.com/jonathan/career-assessor/internal/types"
	"go.uber.org/zap"
)

// LLMOptions configures the LLM-backed generators.
type LLMOptions struct {
	Tier     llm.ModelTier
	Limits   scoring.Limits
	Language string
	Logger   *zap.Logger
}

func (o LLMOptions) withDefaults(tier llm.ModelTier) LLMOptions {
	if o.Tier == "" {
		o.Tier = tier
	}
	if o.Limits == nil {
		o.Limits = scoring.DefaultLimits()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// LLMQuestionGenerator asks an LLM for a question set sized by the limits plan.
type LLMQuestionGenerator struct {
	client llm.Client
	opts   LLMOptions
}

// NewLLMQuestionGenerator creates a generator that uses TierStandard unless overridden.
func NewLLMQuestionGenerator(client llm.Client, opts LLMOptions) *LLMQuestionGenerator {
	return &LLMQuestionGenerator{client: client, opts: opts.withDefaults(llm.TierStandard)}
}

type questionSet struct {
	Questions []types.Question `json:"questions"`
}

// Generate returns the questions produced for profile. Questions whose
// category or option values drift from the taxonomy are logged and returned
// as-is; the caller decides whether the set is usable.
func (g *LLMQuestionGenerator) Generate(ctx context.Context, profile types.UserProfile) ([]types.Question, error) {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, &ParseError{Message: "failed to encode profile", Cause: err}
	}

	template, err := prompts.Get("assessment.json", "generate-questions")
	if err != nil {
		return nil, &APICallError{Message: "failed to load prompt", Cause: err}
	}
	prompt := prompts.Format(template, map[string]string{
		"Profile":  string(profileJSON),
		"Language": resolveLanguage(profile, g.opts.Language),
		"Plan":     describePlan(g.opts.Limits),
		"Taxonomy": describeTaxonomy(),
	})

	response, err := g.client.GenerateJSON(ctx, prompt, g.opts.Tier)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate questions", Cause: err}
	}
	response = llm.CleanJSONBlock(response)

	var set questionSet
	if err := json.Unmarshal([]byte(response), &set); err != nil {
		return nil, &ParseError{Message: "failed to parse questions JSON", Cause: err}
	}
	if err := checkSchema(schemas.Questions, response, "questions"); err != nil {
		return nil, err
	}

	if renumber(set.Questions) {
		g.opts.Logger.Info("renumbered generated questions", zap.Int("count", len(set.Questions)))
	}
	for _, drift := range types.ValidateQuestionSet(set.Questions) {
		g.opts.Logger.Warn("generated question drifts from schema", zap.Error(drift))
	}
	if expected := g.opts.Limits.TotalQuestions(); len(set.Questions) != expected {
		g.opts.Logger.Warn("generated question count differs from plan",
			zap.Int("expected", expected),
			zap.Int("got", len(set.Questions)))
	}

	return set.Questions, nil
}

func checkSchema(schema, document, field string) error {
	err := schemas.ValidateJSONString(schema, document)
	if err == nil {
		return nil
	}
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		return &ValidationError{Field: field, Message: validationErr.Error(), Cause: err}
	}
	return &ParseError{Message: "schema check failed", Cause: err}
}
