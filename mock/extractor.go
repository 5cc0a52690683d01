package mock

import "github.com/fwojciec/prospector"

var _ prospector.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of prospector.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*prospector.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*prospector.ExtractResult, error) {
	return e.ExtractFn(html)
}
