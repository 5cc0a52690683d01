package gemini

import (
	"context"

	"github.com/fwojciec/prospector"
	"google.golang.org/genai"
)

const embeddingModel = "gemini-embedding-001"

// embedBatchSize is the maximum number of texts per EmbedContent call.
const embedBatchSize = 100

// Ensure Embedder implements prospector.Embedder at compile time.
var _ prospector.Embedder = (*Embedder)(nil)

// Embedder produces dense vector embeddings using Google Gemini.
type Embedder struct {
	client *genai.Client
	dim    int32
}

// NewEmbedder creates a new Embedder producing prospector.EmbeddingDim-sized
// vectors.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client, dim: int32(prospector.EmbeddingDim)}
}

// EmbedDocuments embeds texts for indexing, batching requests as needed.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := e.embed(ctx, texts[start:end], "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

// EmbedQuery embeds a single retrieval query.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embed(ctx, []string{text}, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, prospector.Errorf(prospector.EINTERNAL, "expected 1 embedding, got %d", len(vectors))
	}
	return vectors[0], nil
}

// Dimensions returns the embedding dimensionality.
func (e *Embedder) Dimensions() int {
	return int(e.dim)
}

func (e *Embedder) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: t}}}
	}

	dim := e.dim
	result, err := e.client.Models.EmbedContent(ctx, embeddingModel, contents, &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, prospector.Errorf(prospector.EINTERNAL, "expected %d embeddings, got %d", len(texts), countEmbeddings(result))
	}

	out := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, prospector.Errorf(prospector.EINTERNAL, "empty embedding at index %d", i)
		}
		out[i] = emb.Values
	}
	return out, nil
}

func countEmbeddings(result *genai.EmbedContentResponse) int {
	if result == nil {
		return 0
	}
	return len(result.Embeddings)
}
