package generation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/career-assessor/internal/scoring"
	"github.com/jonathan/career-assessor/internal/types"
)

// careerHints maps a subcategory to careers it commonly points toward.
var careerHints = map[types.Subcategory][]string{
	types.Informative:       {"Technical Writer", "Librarian", "Research Analyst"},
	types.Administrative:    {"Operations Coordinator", "Project Administrator", "Office Manager"},
	types.Creative:          {"Graphic Designer", "Product Designer", "Content Creator"},
	types.PeopleOriented:    {"Human Resources Specialist", "Customer Success Manager", "Counsellor"},
	types.Realistic:         {"Mechanical Technician", "Civil Engineer", "Electrician"},
	types.Investigative:     {"Data Scientist", "Laboratory Researcher", "Software Engineer"},
	types.Artistic:          {"Illustrator", "Musician", "Architect"},
	types.Social:            {"Teacher", "Nurse", "Social Worker"},
	types.Enterprising:      {"Entrepreneur", "Sales Manager", "Marketing Lead"},
	types.Conventional:      {"Accountant", "Auditor", "Database Administrator"},
	types.Resilience:        {"Emergency Responder", "Startup Founder"},
	types.Teamwork:          {"Scrum Master", "Team Coordinator"},
	types.DecisionMaking:    {"Product Manager", "Operations Manager"},
	types.Openness:          {"UX Researcher", "Innovation Consultant"},
	types.Logical:           {"Software Engineer", "Systems Analyst"},
	types.Numerical:         {"Financial Analyst", "Actuary"},
	types.Language:          {"Translator", "Editor", "Journalist"},
	types.GeneralKnowledge:  {"Policy Analyst", "Quiz Content Researcher"},
	types.AttentionToDetail: {"Quality Assurance Analyst", "Compliance Officer"},
	types.SelfAwareness:     {"Life Coach", "Psychologist"},
	types.SelfRegulation:    {"Air Traffic Controller", "Surgeon"},
	types.Motivation:        {"Athletic Trainer", "Business Developer"},
	types.Empathy:           {"Therapist", "Healthcare Assistant"},
	types.SocialSkills:      {"Public Relations Specialist", "Recruiter"},
}

var developmentActions = map[types.Category][]string{
	types.OrientationStyle:  {"Shadow professionals in two different work styles", "Keep a weekly log of tasks that energise you"},
	types.Interest:          {"Try a short project in an unfamiliar field", "Attend one industry meetup per month"},
	types.Personality:       {"Take on a group assignment with a defined role", "Reflect on one difficult decision each week"},
	types.Aptitude:          {"Practise timed reasoning and numeracy exercises", "Read a long-form article daily and summarise it"},
	types.EmotionalQuotient: {"Journal emotional reactions after stressful events", "Ask a peer for feedback on how you handle conflict"},
}

// SummaryReportGenerator derives a report from the scores alone. It needs no
// network access and always produces the same report for the same input.
type SummaryReportGenerator struct {
	limits scoring.Limits
}

// NewSummaryReportGenerator creates a rule-based report generator.
func NewSummaryReportGenerator(limits scoring.Limits) *SummaryReportGenerator {
	if limits == nil {
		limits = scoring.DefaultLimits()
	}
	return &SummaryReportGenerator{limits: limits}
}

type rankedSub struct {
	cat   types.Category
	sub   types.Subcategory
	value int
	order int
}

// Generate builds a report aligned with the categories of raw.
func (g *SummaryReportGenerator) Generate(ctx context.Context, raw types.RawScores, profile types.UserProfile) (*types.ReportData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := scoring.Normalize(raw, g.limits)
	categories := presentCategories(raw)
	if len(categories) == 0 {
		return nil, &ValidationError{Field: "raw_scores", Message: "no categories to report on"}
	}

	ranked := rankSubcategories(raw, categories)
	byScore := append([]types.Category(nil), categories...)
	sort.SliceStable(byScore, func(i, j int) bool { return scores[byScore[i]] > scores[byScore[j]] })

	report := &types.ReportData{
		ProfileSummary:    summarize(profile, byScore, scores),
		Strengths:         strengths(ranked),
		CareerMatches:     careerMatches(ranked, scores),
		DevelopmentPlan:   developmentPlan(byScore),
		DetailedAnalyses:  analyses(raw, categories, scores),
		ConcludingRemarks: "These results describe preferences and abilities today. Revisit the assessment after trying the development plan to see how they shift.",
	}
	return report, nil
}

func presentCategories(raw types.RawScores) []types.Category {
	var out []types.Category
	for _, cat := range types.AllCategories() {
		if _, ok := raw[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}

func rankSubcategories(raw types.RawScores, categories []types.Category) []rankedSub {
	var ranked []rankedSub
	for _, cat := range categories {
		for _, sub := range types.Subcategories(cat) {
			ranked = append(ranked, rankedSub{cat: cat, sub: sub, value: raw.Get(cat, sub), order: len(ranked)})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].value != ranked[j].value {
			return ranked[i].value > ranked[j].value
		}
		return ranked[i].order < ranked[j].order
	})
	return ranked
}

func summarize(profile types.UserProfile, byScore []types.Category, scores types.Scores) string {
	name := profile.Name
	if name == "" {
		name = "The candidate"
	}
	top := byScore[0]
	if len(byScore) == 1 {
		return fmt.Sprintf("%s shows the strongest result in %s (%d/100).", name, top, scores[top])
	}
	second := byScore[1]
	return fmt.Sprintf("%s shows the strongest results in %s (%d/100) and %s (%d/100).",
		name, top, scores[top], second, scores[second])
}

func strengths(ranked []rankedSub) []types.Strength {
	var out []types.Strength
	for _, r := range ranked {
		if len(out) == 3 || (r.value <= 0 && len(out) > 0) {
			break
		}
		out = append(out, types.Strength{
			Title:       humanize(r.sub),
			Description: fmt.Sprintf("Scored %d points in %s, one of your highest facets.", r.value, r.cat),
		})
	}
	return out
}

func careerMatches(ranked []rankedSub, scores types.Scores) []types.CareerMatch {
	var out []types.CareerMatch
	seen := make(map[string]bool)
	for _, r := range ranked {
		if len(out) == 5 {
			break
		}
		for _, title := range careerHints[r.sub] {
			if seen[title] {
				continue
			}
			seen[title] = true
			out = append(out, types.CareerMatch{
				Title:        title,
				MatchPercent: scores[r.cat],
				Reason:       fmt.Sprintf("Draws on your %s (%s).", humanize(r.sub), r.cat),
				Pathways:     []string{"Entry-level role or internship", "Relevant certificate or degree"},
			})
			break
		}
	}
	return out
}

func developmentPlan(byScore []types.Category) []types.DevelopmentStep {
	var out []types.DevelopmentStep
	for i := len(byScore) - 1; i >= 0 && len(out) < 2; i-- {
		cat := byScore[i]
		out = append(out, types.DevelopmentStep{
			Area:     string(cat),
			Actions:  developmentActions[cat],
			Timeline: "3 months",
		})
	}
	return out
}

func analyses(raw types.RawScores, categories []types.Category, scores types.Scores) []types.CategoryAnalysis {
	out := make([]types.CategoryAnalysis, 0, len(categories))
	for _, cat := range categories {
		var highlights []string
		for _, sub := range types.Subcategories(cat) {
			highlights = append(highlights, fmt.Sprintf("%s: %d", humanize(sub), raw.Get(cat, sub)))
		}
		out = append(out, types.CategoryAnalysis{
			Category:   cat,
			Summary:    fmt.Sprintf("%s scored %d/100 (%s).", cat, scores[cat], band(scores[cat])),
			Highlights: highlights,
		})
	}
	return out
}

func band(score int) string {
	switch {
	case score >= 75:
		return "high"
	case score >= 40:
		return "moderate"
	default:
		return "developing"
	}
}

// humanize turns a camelCase subcategory into spaced words.
func humanize(sub types.Subcategory) string {
	var sb strings.Builder
	for i, r := range string(sub) {
		if i > 0 && r >= 'A' && r <= 'Z' {
			sb.WriteByte(' ')
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
