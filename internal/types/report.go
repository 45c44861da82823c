// Package types provides type definitions for structured data used throughout the career assessor.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"slices"
	"strings"
)

// ReportData is the career report produced from raw scores and the user profile
type ReportData struct {
	ProfileSummary    string             `json:"profile_summary"`
	Strengths         []Strength         `json:"strengths"`
	CareerMatches     []CareerMatch      `json:"career_matches"`
	DevelopmentPlan   []DevelopmentStep  `json:"development_plan"`
	DetailedAnalyses  []CategoryAnalysis `json:"detailed_analyses"`
	ConcludingRemarks string             `json:"concluding_remarks"`
}

// Strength is a notable trait backed by the scores
type Strength struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CareerMatch is a suggested career path with a fit estimate
type CareerMatch struct {
	Title        string   `json:"title"`
	MatchPercent int      `json:"match_percent"`
	Reason       string   `json:"reason"`
	Pathways     []string `json:"pathways,omitempty"`
}

// DevelopmentStep is one item of the development plan
type DevelopmentStep struct {
	Area     string   `json:"area"`
	Actions  []string `json:"actions"`
	Timeline string   `json:"timeline,omitempty"`
}

// CategoryAnalysis explains the result for a single category
type CategoryAnalysis struct {
	Category   Category `json:"category"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights,omitempty"`
}

// Clone returns a deep copy of the report. Nil slices stay nil.
func (r *ReportData) Clone() *ReportData {
	if r == nil {
		return nil
	}
	c := *r
	c.Strengths = slices.Clone(r.Strengths)
	c.CareerMatches = slices.Clone(r.CareerMatches)
	for i := range c.CareerMatches {
		c.CareerMatches[i].Pathways = slices.Clone(c.CareerMatches[i].Pathways)
	}
	c.DevelopmentPlan = slices.Clone(r.DevelopmentPlan)
	for i := range c.DevelopmentPlan {
		c.DevelopmentPlan[i].Actions = slices.Clone(c.DevelopmentPlan[i].Actions)
	}
	c.DetailedAnalyses = slices.Clone(r.DetailedAnalyses)
	for i := range c.DetailedAnalyses {
		c.DetailedAnalyses[i].Highlights = slices.Clone(c.DetailedAnalyses[i].Highlights)
	}
	return &c
}

// Validate checks required report fields.
func (r *ReportData) Validate() error {
	if strings.TrimSpace(r.ProfileSummary) == "" {
		return fmt.Errorf("report profile_summary is required")
	}
	if len(r.Strengths) == 0 {
		return fmt.Errorf("report requires at least one strength")
	}
	if len(r.CareerMatches) == 0 {
		return fmt.Errorf("report requires at least one career match")
	}
	for i, m := range r.CareerMatches {
		if m.MatchPercent < 0 || m.MatchPercent > 100 {
			return fmt.Errorf("career_matches[%d].match_percent %d outside 0-100", i, m.MatchPercent)
		}
	}
	return nil
}

// ValidateAlignment checks that detailed analyses cover each raw-score
// category exactly once and nothing else.
func (r *ReportData) ValidateAlignment(raw RawScores) error {
	seen := make(map[Category]bool, len(r.DetailedAnalyses))
	for _, a := range r.DetailedAnalyses {
		if _, ok := raw[a.Category]; !ok {
			return fmt.Errorf("analysis for unknown category %q", a.Category)
		}
		if seen[a.Category] {
			return fmt.Errorf("duplicate analysis for category %s", a.Category)
		}
		seen[a.Category] = true
	}
	for cat := range raw {
		if !seen[cat] {
			return fmt.Errorf("missing analysis for category %s", cat)
		}
	}
	return nil
}
