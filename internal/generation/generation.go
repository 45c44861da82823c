// Package generation produces assessment questions and career reports, either
// through an LLM or from offline sources.
package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/career-assessor/internal/scoring"
	"github.com/jonathan/career-assessor/internal/types"
)

// QuestionGenerator builds a question set tailored to a profile.
type QuestionGenerator interface {
	Generate(ctx context.Context, profile types.UserProfile) ([]types.Question, error)
}

// ReportGenerator turns raw scores and a profile into a career report.
type ReportGenerator interface {
	Generate(ctx context.Context, raw types.RawScores, profile types.UserProfile) (*types.ReportData, error)
}

// DefaultLanguage is used when neither the profile nor the options name one.
const DefaultLanguage = "en"

func resolveLanguage(profile types.UserProfile, fallback string) string {
	if profile.Language != "" {
		return profile.Language
	}
	if fallback != "" {
		return fallback
	}
	return DefaultLanguage
}

// describePlan renders the per-category question allocation for prompts.
func describePlan(limits scoring.Limits) string {
	var sb strings.Builder
	for _, cat := range types.AllCategories() {
		limit := limits[cat]
		if limit.Questions <= 0 {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %d questions\n", cat, limit.Questions)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// describeTaxonomy renders every category with its subcategories.
func describeTaxonomy() string {
	var sb strings.Builder
	for _, cat := range types.AllCategories() {
		subs := types.Subcategories(cat)
		names := make([]string, len(subs))
		for i, s := range subs {
			names[i] = string(s)
		}
		fmt.Fprintf(&sb, "- %s: %s\n", cat, strings.Join(names, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renumber assigns sequential ids when any id is missing or repeated.
// It reports whether ids were rewritten.
func renumber(questions []types.Question) bool {
	seen := make(map[int]bool, len(questions))
	clean := true
	for _, q := range questions {
		if q.ID <= 0 || seen[q.ID] {
			clean = false
			break
		}
		seen[q.ID] = true
	}
	if clean {
		return false
	}
	for i := range questions {
		questions[i].ID = i + 1
	}
	return true
}
