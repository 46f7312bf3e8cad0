// Package service wires the chunker, embedder and vector index into the two
// pipeline operations: corpus ingestion and similarity search.
package service

import (
	"context"
	"fmt"
	"strings"

	"policyrag/internal/domain"
	"policyrag/internal/loader"
)

const defaultTopK = 3

// Service is the application core behind both CLI entry points.
type Service struct {
	chunker  domain.Chunker
	embedder domain.Embedder
	index    domain.Index
}

// New assembles a service from its collaborators.
func New(chunker domain.Chunker, embedder domain.Embedder, index domain.Index) *Service {
	return &Service{chunker: chunker, embedder: embedder, index: index}
}

// Ingest loads every supported document in dir, chunks them, embeds the whole
// corpus in one batch and upserts it into the index. Re-running over an
// unchanged corpus overwrites the same ids instead of growing the index.
// Returns the number of chunks written.
func (s *Service) Ingest(ctx context.Context, dir string) (int, error) {
	docs, err := loader.List(dir)
	if err != nil {
		return 0, err
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		cs, err := s.chunker.Chunk(doc)
		if err != nil {
			return 0, fmt.Errorf("chunking %s: %w", doc.Source, err)
		}
		for _, c := range cs {
			// Empty texts would produce degenerate embeddings; drop them.
			if strings.TrimSpace(c.Text) == "" {
				continue
			}
			chunks = append(chunks, c)
		}
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	ids := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	metadatas := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID()
		texts[i] = c.Text
		metadatas[i] = c.Metadata
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding corpus: %w", err)
	}
	if err := s.index.EnsureCollection(ctx); err != nil {
		return 0, err
	}
	if err := s.index.Upsert(ctx, ids, vectors, texts, metadatas); err != nil {
		return 0, fmt.Errorf("upserting chunks: %w", err)
	}
	return len(chunks), nil
}

// Search embeds the query and returns up to k results, best match first.
// The index's distance ordering is preserved as-is; scores are 1 - distance
// clamped into [0,1]. An empty query fails with domain.ErrInvalidInput and a
// never-ingested index with domain.ErrIndexNotFound.
func (s *Service) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = defaultTopK
	}
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected one query vector, got %d", domain.ErrProvider, len(vectors))
	}

	res, err := s.index.Query(ctx, vectors[0], k)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SearchResult, 0, len(res.Documents))
	for i, text := range res.Documents {
		var meta map[string]any
		if i < len(res.Metadatas) {
			meta = res.Metadatas[i]
		}
		var distance float64
		if i < len(res.Distances) {
			distance = res.Distances[i]
		}
		out = append(out, domain.SearchResult{
			Text:     text,
			Source:   metaString(meta, "source"),
			Section:  metaString(meta, "section"),
			PolicyID: metaString(meta, "policy_id"),
			Score:    clamp01(1 - distance),
		})
	}
	return out, nil
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	v, ok := meta[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// clamp01 bounds scores into [0,1]: cosine distances can reach 2 for
// non-normalized embeddings, which would make 1 - d negative. Clamping is
// monotone on the ascending distances, so the ranking is unaffected.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
