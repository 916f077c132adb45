package domain

// Recipe is a single entry on a recipe search page.
type Recipe struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
}

// Filter is one selectable search refinement. ID is opaque to callers but
// syntactically "<facet_name>:<facet_value>" and must be passed back verbatim
// to apply the facet.
type Filter struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
	Category    string `json:"category"`
}

// RecipePage is one page of recipe search results plus the facets the origin
// offers for refining the search.
type RecipePage struct {
	SourceURL string   `json:"source_url"`
	Items     []Recipe `json:"items"`
	HasMore   bool     `json:"has_more"`
	Filters   []Filter `json:"filters"`
}

// RecipeDetail is the full view of a single recipe. Ingredients are
// pre-formatted display strings ("<quantity> <unit> <title>").
type RecipeDetail struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	ImageURL     string   `json:"image_url,omitempty"`
}
