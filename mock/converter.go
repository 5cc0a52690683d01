package mock

import "github.com/fwojciec/prospector"

var _ prospector.Converter = (*Converter)(nil)

// Converter is a mock implementation of prospector.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
