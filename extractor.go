package prospector

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// The content HTML keeps content-bearing elements (article, main,
	// section, headings, paragraphs) and drops elements whose class or id
	// matches a boilerplate denylist.
	Extract(html string) (*ExtractResult, error)
}
