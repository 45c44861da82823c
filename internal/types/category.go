// Package types provides type definitions for structured data used throughout the career assessor.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Category is a top-level assessment dimension.
type Category string

// Subcategory is a named facet within a Category that accumulates its own score.
type Subcategory string

// Assessment categories
const (
	OrientationStyle  Category = "OrientationStyle"
	Interest          Category = "Interest"
	Personality       Category = "Personality"
	Aptitude          Category = "Aptitude"
	EmotionalQuotient Category = "EmotionalQuotient"
)

// OrientationStyle subcategories
const (
	Informative    Subcategory = "informative"
	Administrative Subcategory = "administrative"
	Creative       Subcategory = "creative"
	PeopleOriented Subcategory = "peopleOriented"
)

// Interest subcategories (Holland codes)
const (
	Realistic     Subcategory = "realistic"
	Investigative Subcategory = "investigative"
	Artistic      Subcategory = "artistic"
	Social        Subcategory = "social"
	Enterprising  Subcategory = "enterprising"
	Conventional  Subcategory = "conventional"
)

// Personality subcategories
const (
	Resilience     Subcategory = "resilience"
	Teamwork       Subcategory = "teamwork"
	DecisionMaking Subcategory = "decisionMaking"
	Openness       Subcategory = "openness"
)

// Aptitude subcategories
const (
	Logical           Subcategory = "logical"
	Numerical         Subcategory = "numerical"
	Language          Subcategory = "language"
	GeneralKnowledge  Subcategory = "generalKnowledge"
	AttentionToDetail Subcategory = "attentionToDetail"
)

// EmotionalQuotient subcategories
const (
	SelfAwareness  Subcategory = "selfAwareness"
	SelfRegulation Subcategory = "selfRegulation"
	Motivation     Subcategory = "motivation"
	Empathy        Subcategory = "empathy"
	SocialSkills   Subcategory = "socialSkills"
)

// categoryOrder fixes iteration order for output and prompts.
var categoryOrder = []Category{
	OrientationStyle,
	Interest,
	Personality,
	Aptitude,
	EmotionalQuotient,
}

// taxonomy is the closed category -> subcategory schema.
var taxonomy = map[Category][]Subcategory{
	OrientationStyle:  {Informative, Administrative, Creative, PeopleOriented},
	Interest:          {Realistic, Investigative, Artistic, Social, Enterprising, Conventional},
	Personality:       {Resilience, Teamwork, DecisionMaking, Openness},
	Aptitude:          {Logical, Numerical, Language, GeneralKnowledge, AttentionToDetail},
	EmotionalQuotient: {SelfAwareness, SelfRegulation, Motivation, Empathy, SocialSkills},
}

// AllCategories returns every category in display order.
func AllCategories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Subcategories returns the subcategories owned by a category, or nil for an unknown category.
func Subcategories(c Category) []Subcategory {
	subs, ok := taxonomy[c]
	if !ok {
		return nil
	}
	out := make([]Subcategory, len(subs))
	copy(out, subs)
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := taxonomy[c]
	return ok
}

// Has reports whether sub belongs to the category's schema.
func (c Category) Has(sub Subcategory) bool {
	for _, s := range taxonomy[c] {
		if s == sub {
			return true
		}
	}
	return false
}
