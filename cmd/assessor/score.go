package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assessor/internal/generation"
	"github.com/jonathan/career-assessor/internal/observability"
	"github.com/jonathan/career-assessor/internal/schemas"
	"github.com/jonathan/career-assessor/internal/scoring"
	"github.com/jonathan/career-assessor/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answer sheet against a question file without generation",
	Long: `Aggregate and normalize answers offline. Questions are read from a YAML question bank
or a JSON question set, answers from a JSON array of {question_id, value}.`,
	RunE: runScore,
}

var (
	scoreQuestionsFile string
	scoreAnswersFile   string
	scoreOutputFile    string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreQuestionsFile, "questions", "q", "", "Path to questions file (.yaml, .yml or .json)")
	scoreCmd.Flags().StringVarP(&scoreAnswersFile, "answers", "a", "", "Path to answers JSON file")
	scoreCmd.Flags().StringVarP(&scoreOutputFile, "out", "o", "", "Path to write the score sheet JSON")

	_ = scoreCmd.MarkFlagRequired("questions")
	_ = scoreCmd.MarkFlagRequired("answers")
	rootCmd.AddCommand(scoreCmd)
}

// ScoreSheet is the JSON written by --out.
type ScoreSheet struct {
	RawScores types.RawScores `json:"raw_scores"`
	Scores    types.Scores    `json:"scores"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limits, err := cfg.Assessment.ScoringLimits()
	if err != nil {
		return err
	}

	questions, err := readQuestions(scoreQuestionsFile)
	if err != nil {
		return err
	}
	answers, err := readAnswers(scoreAnswersFile)
	if err != nil {
		return err
	}

	sheet := scoreAnswers(questions, answers, limits)

	if scoreOutputFile != "" {
		if err := writeScoreSheet(scoreOutputFile, sheet); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", scoreOutputFile)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintScores(sheet.Scores)
	return nil
}

func scoreAnswers(questions []types.Question, answers []types.Answer, limits scoring.Limits) ScoreSheet {
	raw := scoring.Aggregate(answers, questions)
	return ScoreSheet{RawScores: raw, Scores: scoring.Normalize(raw, limits)}
}

// readQuestions loads a YAML bank or a JSON question set by extension.
func readQuestions(path string) ([]types.Question, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return generation.LoadBank(path)
	case ".json":
		if err := schemas.ValidateFile(schemas.Questions, path); err != nil {
			return nil, fmt.Errorf("questions file %s is invalid: %w", path, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read questions file: %w", err)
		}
		var set struct {
			Questions []types.Question `json:"questions"`
		}
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("failed to parse questions file: %w", err)
		}
		if errs := types.ValidateQuestionSet(set.Questions); len(errs) > 0 {
			return nil, fmt.Errorf("questions file %s is invalid: %w", path, errors.Join(errs...))
		}
		return set.Questions, nil
	default:
		return nil, fmt.Errorf("unsupported questions file extension %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}
}

func readAnswers(path string) ([]types.Answer, error) {
	if err := schemas.ValidateFile(schemas.Answers, path); err != nil {
		return nil, fmt.Errorf("answers file %s is invalid: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}
	var answers []types.Answer
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("failed to parse answers file: %w", err)
	}
	return answers, nil
}

// writeScoreSheet writes sheet and validates the written file.
func writeScoreSheet(path string, sheet ScoreSheet) error {
	jsonBytes, err := json.MarshalIndent(sheet, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if err := schemas.ValidateFile(schemas.Scores, path); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("score sheet does not validate against schema: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
	}
	return nil
}
