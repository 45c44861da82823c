// Package types provides type definitions for structured data used throughout the career assessor.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// QuestionType determines how a question's option values are interpreted
type QuestionType string

// Question types
const (
	MultipleChoice QuestionType = "multiple_choice"
	Likert         QuestionType = "likert"
)

// Option value conventions
const (
	LikertMin      = 1
	LikertMax      = 5
	CorrectValue   = 5
	IncorrectValue = 0
)

// Question is a single generated assessment item
type Question struct {
	ID          int          `json:"id" yaml:"id"`
	Text        string       `json:"text" yaml:"text"`
	Type        QuestionType `json:"type" yaml:"type"`
	Category    Category     `json:"category" yaml:"category"`
	SubCategory Subcategory  `json:"sub_category" yaml:"sub_category"`
	Options     []Option     `json:"options" yaml:"options"`
}

// Option is one selectable answer for a question
type Option struct {
	Text  string `json:"text" yaml:"text"`
	Value int    `json:"value" yaml:"value"`
}

// Answer references a question by ID and carries the selected value
type Answer struct {
	QuestionID int `json:"question_id"`
	Value      int `json:"value"`
}

// QuestionError describes why a question breaks the assessment schema
type QuestionError struct {
	QuestionID int
	Field      string
	Message    string
}

func (e *QuestionError) Error() string {
	return fmt.Sprintf("question %d: %s: %s", e.QuestionID, e.Field, e.Message)
}

// Validate checks the question against the category taxonomy and the
// option-value convention for its type.
func (q *Question) Validate() error {
	if q.ID <= 0 {
		return &QuestionError{QuestionID: q.ID, Field: "id", Message: "must be a positive integer"}
	}
	if q.Text == "" {
		return &QuestionError{QuestionID: q.ID, Field: "text", Message: "is required"}
	}
	if !q.Category.Valid() {
		return &QuestionError{QuestionID: q.ID, Field: "category", Message: fmt.Sprintf("unknown category %q", q.Category)}
	}
	if !q.Category.Has(q.SubCategory) {
		return &QuestionError{
			QuestionID: q.ID,
			Field:      "sub_category",
			Message:    fmt.Sprintf("%q is not a subcategory of %s", q.SubCategory, q.Category),
		}
	}
	if len(q.Options) < 2 {
		return &QuestionError{QuestionID: q.ID, Field: "options", Message: "at least two options are required"}
	}

	switch q.Type {
	case Likert:
		for i, opt := range q.Options {
			if opt.Value < LikertMin || opt.Value > LikertMax {
				return &QuestionError{
					QuestionID: q.ID,
					Field:      fmt.Sprintf("options[%d].value", i),
					Message:    fmt.Sprintf("likert value %d outside %d-%d", opt.Value, LikertMin, LikertMax),
				}
			}
		}
	case MultipleChoice:
		if q.Category == Aptitude {
			return q.validateGraded()
		}
		return q.validateForcedChoice()
	default:
		return &QuestionError{QuestionID: q.ID, Field: "type", Message: fmt.Sprintf("unknown question type %q", q.Type)}
	}
	return nil
}

// validateGraded requires exactly one correct option; every other option scores zero.
func (q *Question) validateGraded() error {
	correct := 0
	for i, opt := range q.Options {
		switch opt.Value {
		case CorrectValue:
			correct++
		case IncorrectValue:
		default:
			return &QuestionError{
				QuestionID: q.ID,
				Field:      fmt.Sprintf("options[%d].value", i),
				Message:    fmt.Sprintf("graded option value must be %d or %d, got %d", CorrectValue, IncorrectValue, opt.Value),
			}
		}
	}
	if correct != 1 {
		return &QuestionError{
			QuestionID: q.ID,
			Field:      "options",
			Message:    fmt.Sprintf("exactly one correct option required, found %d", correct),
		}
	}
	return nil
}

// validateForcedChoice requires each option to carry a distinct value.
func (q *Question) validateForcedChoice() error {
	seen := make(map[int]bool, len(q.Options))
	for i, opt := range q.Options {
		if seen[opt.Value] {
			return &QuestionError{
				QuestionID: q.ID,
				Field:      fmt.Sprintf("options[%d].value", i),
				Message:    fmt.Sprintf("duplicate forced-choice value %d", opt.Value),
			}
		}
		seen[opt.Value] = true
	}
	return nil
}

// HasOptionValue reports whether value is selectable for the question.
func (q *Question) HasOptionValue(value int) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// ValidateQuestionSet validates every question and checks ID uniqueness.
// It returns one error per offending question.
func ValidateQuestionSet(questions []Question) []error {
	var errs []error
	seen := make(map[int]bool, len(questions))
	for i := range questions {
		q := &questions[i]
		if err := q.Validate(); err != nil {
			errs = append(errs, err)
		}
		if q.ID > 0 && seen[q.ID] {
			errs = append(errs, &QuestionError{QuestionID: q.ID, Field: "id", Message: "duplicate question id"})
		}
		seen[q.ID] = true
	}
	return errs
}

// ValidateAnswerable checks only what the question loop depends on: positive
// unique IDs and at least one option per question. Taxonomy drift passes;
// scoring skips answers it cannot place.
func ValidateAnswerable(questions []Question) []error {
	var errs []error
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		switch {
		case q.ID <= 0:
			errs = append(errs, &QuestionError{QuestionID: q.ID, Field: "id", Message: "must be a positive integer"})
		case seen[q.ID]:
			errs = append(errs, &QuestionError{QuestionID: q.ID, Field: "id", Message: "duplicate question id"})
		case len(q.Options) == 0:
			errs = append(errs, &QuestionError{QuestionID: q.ID, Field: "options", Message: "no options to choose from"})
		}
		seen[q.ID] = true
	}
	return errs
}
