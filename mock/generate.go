package mock

import (
	"context"

	"github.com/fwojciec/prospector"
)

var _ prospector.Generator = (*Generator)(nil)

// Generator is a mock implementation of prospector.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, req prospector.GenerateRequest) (string, error)
}

func (g *Generator) Generate(ctx context.Context, req prospector.GenerateRequest) (string, error) {
	return g.GenerateFn(ctx, req)
}
