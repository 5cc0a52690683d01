package prospector

import "context"

// Fetcher retrieves static HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the HTML content at the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the Fetcher.
	Close() error
}
