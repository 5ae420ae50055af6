package domain

// NewsCategory is the closed set of categories the news prompt asks for.
type NewsCategory string

const (
	CategoryResearch  NewsCategory = "Research"
	CategoryIndustry  NewsCategory = "Industry"
	CategoryHardware  NewsCategory = "Hardware"
	CategorySoftware  NewsCategory = "Software"
	CategoryPolicy    NewsCategory = "Policy"
	CategoryEducation NewsCategory = "Education"
)

// NewsItem is one quantum-computing news entry as returned by the AI search
// backend. Ephemeral: the application only caches batches, never stores
// individual items.
type NewsItem struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	Date     string `json:"date"`
	URL      string `json:"url,omitempty"`
	Category string `json:"category"`
}
