package models

// Recipe is the normalized record returned to callers. Every field is always
// serialized: slices and maps default to empty, never null. Only Ratings and
// ReviewsCount may be null.
type Recipe struct {
	Title        string            `json:"title"`
	Ingredients  []string          `json:"ingredients"`
	Instructions []string          `json:"instructions"`
	Yields       string            `json:"yields"`
	TotalTime    string            `json:"total_time"`
	Image        string            `json:"image"`
	Host         string            `json:"host"`
	CanonicalURL string            `json:"canonical_url"`
	Language     string            `json:"language"`
	Author       string            `json:"author"`
	Ratings      *float64          `json:"ratings"`
	ReviewsCount *int              `json:"reviews_count"`
	Nutrients    map[string]string `json:"nutrients"`
	Difficulty   string            `json:"difficulty"`
	PrepTime     string            `json:"prep_time"`
	CookTime     string            `json:"cook_time"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	Cuisine      string            `json:"cuisine"`
	Tags         []string          `json:"tags"`
}

// NewRecipe returns a record with every field at its default.
func NewRecipe() *Recipe {
	return &Recipe{
		Ingredients:  []string{},
		Instructions: []string{},
		Nutrients:    map[string]string{},
		Tags:         []string{},
	}
}
