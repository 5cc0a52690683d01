package prospector

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// EmbeddingDim is the fixed dimension of stored embedding vectors.
const EmbeddingDim = 1536

// DefaultTopK is the default number of nearest neighbors returned by a query.
const DefaultTopK = 5

// RecordMetadata is the metadata stored alongside each index record.
type RecordMetadata struct {
	SourceURL         string  `json:"source_url"`
	CompanyLikelihood float64 `json:"company_likelihood"`
	PeopleLikelihood  float64 `json:"people_likelihood"`
}

// IndexRecord is an embedded chunk stored in a per-site collection.
type IndexRecord struct {
	ID        string
	Embedding []float32
	Text      string
	Metadata  RecordMetadata
}

// Validate returns an error if the record contains invalid fields.
func (r *IndexRecord) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "record ID required")
	}
	if r.Text == "" {
		return Errorf(EINVALID, "record text required")
	}
	if r.Metadata.SourceURL == "" {
		return Errorf(EINVALID, "record source URL required")
	}
	return nil
}

// QueryFilter restricts a nearest-neighbor query to records whose relevance
// metadata passes the inclusion threshold.
type QueryFilter struct {
	CompanyLikely bool
	PeopleLikely  bool
}

// Match is a nearest-neighbor query result.
type Match struct {
	Text     string
	Score    float64
	Metadata RecordMetadata
}

// Index stores embedded chunks in per-site collections and answers
// nearest-neighbor queries.
type Index interface {
	// CollectionExists reports whether a non-empty collection exists.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// EnsureCollection creates the collection if absent. Creating an existing
	// collection is a no-op, so concurrent runs against the same domain
	// converge on one collection.
	EnsureCollection(ctx context.Context, name string, dim int) error

	// Upsert embeds the chunks and stores them in the collection.
	// Embedding is batched per call, not per chunk.
	Upsert(ctx context.Context, name string, chunks []ContentChunk) error

	// Query embeds the query text once and returns the topK nearest records,
	// optionally restricted by filter. A filtered query returning zero
	// results is not an error; fallback policy belongs to the caller.
	Query(ctx context.Context, name, query string, filter *QueryFilter, topK int) ([]Match, error)
}

// Embedder turns text into fixed-dimension vectors.
type Embedder interface {
	// EmbedDocuments embeds a batch of texts for storage.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query text for retrieval.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector dimension produced by this embedder.
	Dimensions() int
}

// CollectionName derives the per-site collection name from the site URL:
// the normalized second-level label of the host (e.g., "example" for
// https://www.example.com/about).
func CollectionName(siteURL string) (string, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid site URL %q: %v", siteURL, err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", Errorf(EINVALID, "site URL %q has no host", siteURL)
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return host, nil
	}
	return labels[len(labels)-2], nil
}

// ChunkID derives a stable record ID from a chunk's source URL and text.
// Re-indexing identical content produces identical IDs, which makes upserts
// idempotent.
func ChunkID(c ContentChunk) string {
	h := xxhash.New()
	_, _ = h.WriteString(c.SourceURL)
	_, _ = h.WriteString("\n")
	_, _ = h.WriteString(c.Text)
	return fmt.Sprintf("%016x", h.Sum64())
}
