//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllCategories_FixedOrder(t *testing.T) {
	assert.Equal(t, []Category{OrientationStyle, Interest, Personality, Aptitude, EmotionalQuotient}, AllCategories())
}

func TestAllCategories_ReturnsCopy(t *testing.T) {
	cats := AllCategories()
	cats[0] = "Mutated"
	assert.Equal(t, OrientationStyle, AllCategories()[0])
}

func TestSubcategories(t *testing.T) {
	assert.Equal(t, []Subcategory{Informative, Administrative, Creative, PeopleOriented}, Subcategories(OrientationStyle))
	assert.Equal(t, []Subcategory{Logical, Numerical, Language, GeneralKnowledge, AttentionToDetail}, Subcategories(Aptitude))
	assert.Len(t, Subcategories(Personality), 4)
	assert.Nil(t, Subcategories("Astrology"))
}

func TestCategory_Has(t *testing.T) {
	tests := []struct {
		name string
		cat  Category
		sub  Subcategory
		want bool
	}{
		{"member", Personality, Teamwork, true},
		{"member of another category", Personality, Numerical, false},
		{"unknown subcategory", Aptitude, "telepathy", false},
		{"unknown category", "Astrology", Teamwork, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cat.Has(tt.sub))
		})
	}
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range AllCategories() {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("personality").Valid(), "categories are case-sensitive")
}
