package core

// CategorySuggestion pairs a category with sub-categories offered in the forms.
type CategorySuggestion struct {
	Category      string   `json:"category"`
	SubCategories []string `json:"sub_categories"`
}

var categorySuggestions = []CategorySuggestion{
	{Category: "Fresh", SubCategories: []string{"Citrus", "Aquatic", "Green", "Fruity"}},
	{Category: "Floral", SubCategories: []string{"Rose", "Jasmine", "Lily", "Peony", "Violet"}},
	{Category: "Oriental", SubCategories: []string{"Amber", "Vanilla", "Spicy", "Exotic"}},
	{Category: "Woody", SubCategories: []string{"Sandalwood", "Cedar", "Pine", "Vetiver"}},
	{Category: "Gourmand", SubCategories: []string{"Sweet", "Chocolate", "Coffee", "Caramel"}},
}

// CategorySuggestions returns a copy of the suggestion table. Categories are not restricted to it.
func CategorySuggestions() []CategorySuggestion {
	suggestions := make([]CategorySuggestion, len(categorySuggestions))
	for i, suggestion := range categorySuggestions {
		suggestions[i] = CategorySuggestion{
			Category:      suggestion.Category,
			SubCategories: append([]string(nil), suggestion.SubCategories...),
		}
	}
	return suggestions
}
