package search

// categoryKeywords are the fan-out presets for the browsable food
// categories. Each keyword becomes one independent upstream lookup.
var categoryKeywords = map[string][]string{
	"seafood":      {"fish", "seafood", "salmon", "tuna", "shrimp", "crab"},
	"produce":      {"salad", "lettuce", "vegetable", "fruit", "spinach"},
	"meat-poultry": {"meat", "beef", "chicken", "pork", "turkey", "poultry"},
	"dairy":        {"milk", "cheese", "dairy", "yogurt", "cream", "butter"},
}

// KeywordsForCategory returns the fan-out keyword set for a category slug,
// or nil for an unknown category.
func KeywordsForCategory(slug string) []string {
	kws, ok := categoryKeywords[slug]
	if !ok {
		return nil
	}
	out := make([]string, len(kws))
	copy(out, kws)
	return out
}

// Categories lists the known category slugs.
func Categories() []string {
	return []string{"seafood", "produce", "meat-poultry", "dairy"}
}
