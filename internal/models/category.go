package models

import "strings"

// Category is the article category as sent by the remote API.
// Values outside the known set are kept verbatim so they survive a round trip.
type Category string

const (
	CategoryBelgique Category = "BELGIQUE"
	CategoryCongo    Category = "CONGO"
	CategoryFinance  Category = "FINANCE"

	// CategoryOther is a filter value matching every category outside the known set.
	// It is never sent to the remote API.
	CategoryOther Category = "OTHER"
)

// KnownCategories lists the categories in display order
var KnownCategories = []Category{CategoryBelgique, CategoryCongo, CategoryFinance}

var categoryLabels = map[Category]string{
	CategoryBelgique: "Économie et Société – Belgique",
	CategoryCongo:    "Économie et Société – République du Congo",
	CategoryFinance:  "Finance et Gestion",
}

// ParseCategory normalizes user input; unrecognized values map to CategoryOther
func ParseCategory(s string) Category {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if c.IsKnown() {
		return c
	}
	return CategoryOther
}

// IsKnown reports whether c is one of the known categories
func (c Category) IsKnown() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Matches reports whether an article category falls under the filter c
func (c Category) Matches(articleCategory Category) bool {
	if c == CategoryOther {
		return !articleCategory.IsKnown()
	}
	return c == articleCategory
}

// Label returns the display label, or the raw value for unknown categories
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	if c == CategoryOther {
		return "Autres"
	}
	return string(c)
}
