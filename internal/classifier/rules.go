package classifier

import (
	"fmt"
	"os"

	"github.com/rocjay1/statement-sorter/internal/models"
	"gopkg.in/yaml.v3"
)

// Override forces a category for merchants matching Pattern.
type Override struct {
	Pattern  string          `yaml:"pattern"`
	Category models.Category `yaml:"category"`
}

// Rules are the ordered tables driving classification. Patterns are
// matched case-insensitively against the merchant description.
type Rules struct {
	Ignore         []string   `yaml:"ignore"`
	Overrides      []Override `yaml:"overrides"`
	FoodKeywords   []string   `yaml:"food_keywords"`
	FoodExclusions []string   `yaml:"food_exclusions"`
}

// DefaultRules returns the built-in rule tables.
func DefaultRules() Rules {
	return Rules{
		Ignore: []string{
			"PAYMENT",
			"THANK YOU",
			"PAIEMENT",
			"BALANCE",
			"INTEREST",
			"FEE",
		},
		Overrides: []Override{
			{"PRESTO", models.CategoryPresto},
			{"FLYWIRE", models.CategoryPersonal},
			{"OCAS", models.CategoryPersonal},
			{"OPENAI", models.CategoryPersonal},
			{"CU* RM FINANCE", models.CategorySchool},
			{"WAL-MART", models.CategoryGroceries},
			{"WALMART", models.CategoryGroceries},
			{"FRESHCO", models.CategoryGroceries},
			{"FORTINOS", models.CategoryGroceries},
			{"DOLLARAMA", models.CategoryGroceries},
			{"SHOPPERS", models.CategoryGroceries},
			{"SPOTIFY", models.CategoryOther},
			{"CITY OF", models.CategoryOther},
		},
		FoodKeywords: []string{
			"MCDONALD",
			"KFC",
			"TACO",
			"BURRITO",
			"SUB",
			"PIZZA",
			"SHELBYS",
			"TIM HORTONS",
			"STARBUCKS",
			"COFFEE",
			"CAFE",
			"RESTAURANT",
			"DINER",
			"GRILL",
			"BISTRO",
			"KITCHEN",
			"UBER EATS",
			"UBEREATS",
			"DOORDASH",
			"SKIP",
		},
		FoodExclusions: []string{
			"FRESHCO",
			"FORTINOS",
			"LOBLAWS",
			"WAL-MART",
			"WALMART",
			"DOLLARAMA",
			"SHOPPERS",
			"SUPERCENTER",
		},
	}
}

// Validate checks that every override names a known category.
func (r Rules) Validate() error {
	for i, o := range r.Overrides {
		if o.Pattern == "" {
			return fmt.Errorf("override %d: empty pattern", i)
		}
		if !o.Category.Valid() {
			return fmt.Errorf("override %d (%s): %w: %q", i, o.Pattern, ErrInvalidCategory, o.Category)
		}
	}
	return nil
}

// LoadRules reads rule tables from a YAML file. Tables missing from the
// file keep their default values.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	rules := DefaultRules()
	var fromFile Rules
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if fromFile.Ignore != nil {
		rules.Ignore = fromFile.Ignore
	}
	if fromFile.Overrides != nil {
		rules.Overrides = fromFile.Overrides
	}
	if fromFile.FoodKeywords != nil {
		rules.FoodKeywords = fromFile.FoodKeywords
	}
	if fromFile.FoodExclusions != nil {
		rules.FoodExclusions = fromFile.FoodExclusions
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rules, nil
}
