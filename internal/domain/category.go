package domain

import "strings"

// Category keys.
const (
	CategoryRestaurant = "restaurant"
	CategoryBar        = "bar"
	CategoryRooftop    = "rooftop"
	CategoryOther      = "other"
)

// Category describes how a marker category is drawn.
type Category struct {
	Key   string `json:"-"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"` // Font Awesome icon name without the "fa-" prefix
}

// Categories lists every marker category in legend order.
var Categories = []Category{
	{Key: CategoryRestaurant, Label: "Restaurant", Color: "#C62828", Icon: "utensils"},
	{Key: CategoryBar, Label: "Bar", Color: "#1565C0", Icon: "wine-glass-alt"},
	{Key: CategoryRooftop, Label: "Rooftop Bar", Color: "#0097A7", Icon: "cocktail"},
	{Key: CategoryOther, Label: "Other", Color: "#2E7D32", Icon: "store"},
}

// LookupCategory returns the category for key, falling back to "other".
func LookupCategory(key string) Category {
	for _, c := range Categories {
		if c.Key == key {
			return c
		}
	}
	return Categories[len(Categories)-1]
}

// Classify folds a free-text type cell into a category key.
// "Bar + Restaurant" and "Bar + Food" count as bars.
func Classify(typ string) string {
	t := strings.ToLower(strings.TrimSpace(typ))
	switch {
	case t == "rooftop bar":
		return CategoryRooftop
	case strings.Contains(t, "bar"):
		return CategoryBar
	case t == "restaurant", t == "lunch":
		return CategoryRestaurant
	default:
		return CategoryOther
	}
}
