package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/prospector"
)

// Compile-time interface verification.
var _ prospector.Index = (*Index)(nil)

// Index implements prospector.Index using SQLite storage and brute-force
// cosine similarity. Collections on a sales-research scale hold at most a
// few thousand records, so a linear scan is fast enough.
type Index struct {
	db       *DB
	embedder prospector.Embedder
}

// NewIndex creates a new Index using embedder for vectorization.
func NewIndex(db *DB, embedder prospector.Embedder) *Index {
	return &Index{db: db, embedder: embedder}
}

// CollectionExists reports whether a collection exists and holds at least
// one record. A collection row alone doesn't count: creation commits before
// the first upsert, so a run that failed in between leaves an empty
// collection that must not short-circuit the next build.
func (s *Index) CollectionExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM records WHERE collection = ? LIMIT 1", name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EnsureCollection creates the collection if it doesn't exist. An existing
// collection with a different dimensionality is a conflict.
func (s *Index) EnsureCollection(ctx context.Context, name string, dim int) error {
	if name == "" {
		return prospector.Errorf(prospector.EINVALID, "collection name required")
	}
	if dim <= 0 {
		return prospector.Errorf(prospector.EINVALID, "dimensionality must be positive, got %d", dim)
	}

	var existing int
	err := s.db.QueryRowContext(ctx, "SELECT dim FROM collections WHERE name = ?", name).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO collections (name, dim, created_at) VALUES (?, ?, ?)",
			name, dim, time.Now().UTC().Format(time.RFC3339))
		return err
	case err != nil:
		return err
	case existing != dim:
		return prospector.Errorf(prospector.ECONFLICT,
			"collection %q has dimensionality %d, want %d", name, existing, dim)
	default:
		return nil
	}
}

// Upsert embeds the chunks and stores them in the collection. Re-inserting
// an existing chunk ID replaces the record.
func (s *Index) Upsert(ctx context.Context, name string, chunks []prospector.ContentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	for i := range chunks {
		if err := chunks[i].Validate(); err != nil {
			return err
		}
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return prospector.Errorf(prospector.EINTERNAL,
			"embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO records
			(collection, id, text, embedding, source_url, company_likelihood, people_likelihood)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range chunks {
		id := prospector.ChunkID(c)
		if _, err := stmt.ExecContext(ctx, name, id, c.Text, encodeVector(vectors[i]),
			c.SourceURL, c.CompanyLikelihood, c.PeopleLikelihood); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Query embeds the query text and returns the topK most similar records,
// optionally restricted to records whose source page passed the company or
// people likelihood threshold.
func (s *Index) Query(ctx context.Context, name, query string, filter *prospector.QueryFilter, topK int) ([]prospector.Match, error) {
	if topK <= 0 {
		topK = prospector.DefaultTopK
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`SELECT text, embedding, source_url, company_likelihood, people_likelihood
		FROM records WHERE collection = ?`)
	args := []any{name}

	if filter != nil {
		var conds []string
		if filter.CompanyLikely {
			conds = append(conds, "company_likelihood > ?")
			args = append(args, prospector.InclusionThreshold)
		}
		if filter.PeopleLikely {
			conds = append(conds, "people_likelihood > ?")
			args = append(args, prospector.InclusionThreshold)
		}
		if len(conds) > 0 {
			sb.WriteString(" AND (" + strings.Join(conds, " OR ") + ")")
		}
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []prospector.Match
	for rows.Next() {
		var m prospector.Match
		var blob []byte
		if err := rows.Scan(&m.Text, &blob, &m.Metadata.SourceURL,
			&m.Metadata.CompanyLikelihood, &m.Metadata.PeopleLikelihood); err != nil {
			return nil, err
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, err
		}
		m.Score = cosineSimilarity(queryVec, vec)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// encodeVector packs a float32 vector as little-endian bytes.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// decodeVector unpacks a little-endian byte blob into a float32 vector.
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, prospector.Errorf(prospector.EINTERNAL, "embedding blob length %d not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
