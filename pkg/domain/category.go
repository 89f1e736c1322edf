package domain

import dErrors "sharebite/pkg/domain-errors"

// Category classifies a donation and drives its estimated value.
type Category string

const (
	CategoryFood     Category = "food"
	CategoryMedicine Category = "medicine"
	CategoryOther    Category = "other"
)

// validCategories is the single source of truth for supported categories.
var validCategories = map[Category]bool{
	CategoryFood:     true,
	CategoryMedicine: true,
	CategoryOther:    true,
}

// baseRates are per-unit values in the platform's currency unit.
var baseRates = map[Category]float64{
	CategoryFood:     50,
	CategoryMedicine: 100,
	CategoryOther:    25,
}

// ParseCategory constructs a Category from external input.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "category cannot be empty")
	}
	c := Category(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid category")
	}
	return c, nil
}

func (c Category) IsValid() bool {
	return validCategories[c]
}

// BaseRate returns the per-unit value used for estimated donation value.
func (c Category) BaseRate() float64 {
	return baseRates[c]
}

func (c Category) String() string {
	return string(c)
}
