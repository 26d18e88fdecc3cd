package models

// Category represents spending categories for transactions.
type Category string

const (
	CategorySchoolMeals Category = "school meals"
	CategoryFood        Category = "food"
	CategoryGroceries   Category = "groceries"
	CategoryPresto      Category = "presto"
	CategorySchool      Category = "school"
	CategoryPersonal    Category = "personal"
	// CategoryMomStuff is not produced by the default rules.
	CategoryMomStuff Category = "mom stuff"
	CategoryOther    Category = "other"
)

var allCategories = []Category{
	CategorySchoolMeals,
	CategoryFood,
	CategoryGroceries,
	CategoryPresto,
	CategorySchool,
	CategoryPersonal,
	CategoryMomStuff,
	CategoryOther,
}

// AllCategories returns every category in declaration order.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Verdict is the outcome of classifying one transaction. An ignored
// verdict carries no category.
type Verdict struct {
	Category Category `json:"category,omitempty"`
	Ignored  bool     `json:"ignored"`
}

// Ignore is the verdict for payments, fees and interest.
var Ignore = Verdict{Ignored: true}

// Assign returns a verdict for category c.
func Assign(c Category) Verdict {
	return Verdict{Category: c}
}

// String returns the category name or "ignored".
func (v Verdict) String() string {
	if v.Ignored {
		return "ignored"
	}
	return string(v.Category)
}
