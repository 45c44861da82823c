// Package types provides type definitions for structured data used throughout the career assessor.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// SubScores maps a category's subcategories to accumulated points
type SubScores map[Subcategory]int

// RawScores holds unnormalized point totals grouped by category and subcategory.
// Its shape always matches the taxonomy: build it with NewRawScores.
type RawScores map[Category]SubScores

// Scores maps each category to a normalized value in [0, 100]
type Scores map[Category]int

// NewRawScores returns a RawScores with every taxonomy pair set to zero.
func NewRawScores() RawScores {
	raw := make(RawScores, len(taxonomy))
	for cat, subs := range taxonomy {
		bucket := make(SubScores, len(subs))
		for _, sub := range subs {
			bucket[sub] = 0
		}
		raw[cat] = bucket
	}
	return raw
}

// Add adds value to the (cat, sub) bucket. Pairs outside the taxonomy are
// refused and reported with false; no key is ever created by Add.
func (r RawScores) Add(cat Category, sub Subcategory, value int) bool {
	if !cat.Has(sub) {
		return false
	}
	bucket, ok := r[cat]
	if !ok {
		return false
	}
	if _, ok := bucket[sub]; !ok {
		return false
	}
	bucket[sub] += value
	return true
}

// Get returns the points for a pair, zero when absent.
func (r RawScores) Get(cat Category, sub Subcategory) int {
	return r[cat][sub]
}

// Total sums every subcategory of a category.
func (r RawScores) Total(cat Category) int {
	total := 0
	for _, v := range r[cat] {
		total += v
	}
	return total
}

// Sum adds every bucket across all categories.
func (r RawScores) Sum() int {
	total := 0
	for cat := range r {
		total += r.Total(cat)
	}
	return total
}

// Validate checks that r has exactly the taxonomy's keys.
func (r RawScores) Validate() error {
	if len(r) != len(taxonomy) {
		return fmt.Errorf("raw scores have %d categories, expected %d", len(r), len(taxonomy))
	}
	for cat, subs := range taxonomy {
		bucket, ok := r[cat]
		if !ok {
			return fmt.Errorf("raw scores missing category %s", cat)
		}
		if len(bucket) != len(subs) {
			return fmt.Errorf("raw scores for %s have %d subcategories, expected %d", cat, len(bucket), len(subs))
		}
		for _, sub := range subs {
			if _, ok := bucket[sub]; !ok {
				return fmt.Errorf("raw scores for %s missing subcategory %s", cat, sub)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (r RawScores) Clone() RawScores {
	if r == nil {
		return nil
	}
	out := make(RawScores, len(r))
	for cat, bucket := range r {
		cp := make(SubScores, len(bucket))
		for sub, v := range bucket {
			cp[sub] = v
		}
		out[cat] = cp
	}
	return out
}
