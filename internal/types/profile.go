// Package types provides type definitions for structured data used throughout the career assessor.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UserProfile is the biographical context supplied before question generation.
// It is never mutated by scoring.
type UserProfile struct {
	Name           string   `json:"name" validate:"max=120"`
	Email          string   `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone          string   `json:"phone,omitempty" validate:"omitempty,max=32"`
	Age            int      `json:"age,omitempty" validate:"omitempty,min=10,max=100"`
	EducationLevel string   `json:"education_level" validate:"max=120"`
	FieldOfStudy   string   `json:"field_of_study,omitempty" validate:"max=120"`
	Skills         []string `json:"skills" validate:"max=30,dive,required,max=80"`
	Interests      []string `json:"interests" validate:"max=30,dive,required,max=80"`
	Language       string   `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
}

// ProfilePolicy is the configurable set of required profile fields
type ProfilePolicy struct {
	RequireName      bool `json:"require_name" mapstructure:"require_name"`
	RequireContact   bool `json:"require_contact" mapstructure:"require_contact"`
	RequireEducation bool `json:"require_education" mapstructure:"require_education"`
	MinSkills        int  `json:"min_skills" mapstructure:"min_skills"`
	MinInterests     int  `json:"min_interests" mapstructure:"min_interests"`
}

// DefaultProfilePolicy requires name, contact, education, one skill and one interest.
func DefaultProfilePolicy() ProfilePolicy {
	return ProfilePolicy{
		RequireName:      true,
		RequireContact:   true,
		RequireEducation: true,
		MinSkills:        1,
		MinInterests:     1,
	}
}

// FieldError is a single profile field problem
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ProfileError lists every field that failed validation
type ProfileError struct {
	Fields []FieldError
}

func (e *ProfileError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims whitespace and drops empty list entries.
func (p *UserProfile) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.EducationLevel = strings.TrimSpace(p.EducationLevel)
	p.FieldOfStudy = strings.TrimSpace(p.FieldOfStudy)
	p.Language = strings.TrimSpace(p.Language)
	p.Skills = compactStrings(p.Skills)
	p.Interests = compactStrings(p.Interests)
}

// Validate checks field formats and the required-field policy.
func (p *UserProfile) Validate(policy ProfilePolicy) error {
	var fields []FieldError

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("profile validation failed: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Message: describeTag(fe),
			})
		}
	}

	if policy.RequireName && p.Name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "is required"})
	}
	if policy.RequireContact && p.Email == "" && p.Phone == "" {
		fields = append(fields, FieldError{Field: "contact", Message: "email or phone is required"})
	}
	if policy.RequireEducation && p.EducationLevel == "" {
		fields = append(fields, FieldError{Field: "education_level", Message: "is required"})
	}
	if len(p.Skills) < policy.MinSkills {
		fields = append(fields, FieldError{Field: "skills", Message: fmt.Sprintf("at least %d required", policy.MinSkills)})
	}
	if len(p.Interests) < policy.MinInterests {
		fields = append(fields, FieldError{Field: "interests", Message: fmt.Sprintf("at least %d required", policy.MinInterests)})
	}

	if len(fields) > 0 {
		return &ProfileError{Fields: fields}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate a held profile.
func (p UserProfile) Clone() UserProfile {
	p.Skills = append([]string(nil), p.Skills...)
	p.Interests = append([]string(nil), p.Interests...)
	return p
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "bcp47_language_tag":
		return "must be a BCP 47 language tag"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
