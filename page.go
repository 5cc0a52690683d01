package prospector

// Page represents a fetched candidate page with its cleaned content and the
// relevance scores inherited from ranking.
type Page struct {
	URL               string
	Title             string
	Content           string // Markdown
	CompanyLikelihood float64
	PeopleLikelihood  float64
}
