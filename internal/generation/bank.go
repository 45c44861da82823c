package generation

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/jonathan/career-assessor/internal/scoring"
	"github.com/jonathan/career-assessor/internal/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed bank.yaml
var defaultBank []byte

type bankFile struct {
	Questions []types.Question `yaml:"questions"`
}

// ParseBank decodes a YAML question bank. Missing ids are assigned in file
// order and every question must satisfy the taxonomy.
func ParseBank(data []byte) ([]types.Question, error) {
	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ParseError{Message: "failed to parse question bank", Cause: err}
	}
	if len(file.Questions) == 0 {
		return nil, &ValidationError{Field: "questions", Message: "question bank is empty"}
	}
	renumber(file.Questions)
	if errs := types.ValidateQuestionSet(file.Questions); len(errs) > 0 {
		return nil, &ValidationError{Field: "questions", Message: errs[0].Error(), Cause: errs[0]}
	}
	return file.Questions, nil
}

// LoadBank reads a question bank from path, or the embedded default when path is empty.
func LoadBank(path string) ([]types.Question, error) {
	if path == "" {
		return ParseBank(defaultBank)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank %s: %w", path, err)
	}
	return ParseBank(data)
}

// BankQuestionGenerator serves questions from a fixed bank without network access.
type BankQuestionGenerator struct {
	bank   []types.Question
	limits scoring.Limits
	logger *zap.Logger
}

// NewBankQuestionGenerator selects from bank according to limits.
func NewBankQuestionGenerator(bank []types.Question, limits scoring.Limits, logger *zap.Logger) *BankQuestionGenerator {
	if limits == nil {
		limits = scoring.DefaultLimits()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankQuestionGenerator{bank: bank, limits: limits, logger: logger}
}

// Generate picks each category's allocation, rotating through subcategories
// so every facet is represented before any repeats. The profile does not
// influence selection.
func (g *BankQuestionGenerator) Generate(ctx context.Context, _ types.UserProfile) ([]types.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var selected []types.Question
	for _, cat := range types.AllCategories() {
		want := g.limits[cat].Questions
		if want <= 0 {
			continue
		}
		picked := g.pick(cat, want)
		if len(picked) < want {
			g.logger.Warn("question bank short for category",
				zap.String("category", string(cat)),
				zap.Int("want", want),
				zap.Int("have", len(picked)))
		}
		selected = append(selected, picked...)
	}

	for i := range selected {
		selected[i].ID = i + 1
	}
	return selected, nil
}

func (g *BankQuestionGenerator) pick(cat types.Category, want int) []types.Question {
	queues := make(map[types.Subcategory][]types.Question)
	for _, q := range g.bank {
		if q.Category == cat {
			queues[q.SubCategory] = append(queues[q.SubCategory], q)
		}
	}

	subs := types.Subcategories(cat)
	out := make([]types.Question, 0, want)
	for len(out) < want {
		progressed := false
		for _, sub := range subs {
			if len(out) == want {
				break
			}
			if len(queues[sub]) == 0 {
				continue
			}
			q := queues[sub][0]
			queues[sub] = queues[sub][1:]
			q.Options = append([]types.Option(nil), q.Options...)
			out = append(out, q)
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return out
}
