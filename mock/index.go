package mock

import (
	"context"

	"github.com/fwojciec/prospector"
)

var _ prospector.Index = (*Index)(nil)

// Index is a mock implementation of prospector.Index.
type Index struct {
	CollectionExistsFn func(ctx context.Context, name string) (bool, error)
	EnsureCollectionFn func(ctx context.Context, name string, dim int) error
	UpsertFn           func(ctx context.Context, name string, chunks []prospector.ContentChunk) error
	QueryFn            func(ctx context.Context, name, query string, filter *prospector.QueryFilter, topK int) ([]prospector.Match, error)
}

func (i *Index) CollectionExists(ctx context.Context, name string) (bool, error) {
	return i.CollectionExistsFn(ctx, name)
}

func (i *Index) EnsureCollection(ctx context.Context, name string, dim int) error {
	return i.EnsureCollectionFn(ctx, name, dim)
}

func (i *Index) Upsert(ctx context.Context, name string, chunks []prospector.ContentChunk) error {
	return i.UpsertFn(ctx, name, chunks)
}

func (i *Index) Query(ctx context.Context, name, query string, filter *prospector.QueryFilter, topK int) ([]prospector.Match, error) {
	return i.QueryFn(ctx, name, query, filter, topK)
}

var _ prospector.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of prospector.Embedder.
type Embedder struct {
	EmbedDocumentsFn func(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQueryFn     func(ctx context.Context, text string) ([]float32, error)
	DimensionsFn     func() int
}

func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedDocumentsFn(ctx, texts)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQueryFn(ctx, text)
}

func (e *Embedder) Dimensions() int {
	if e.DimensionsFn == nil {
		return prospector.EmbeddingDim
	}
	return e.DimensionsFn()
}
