// Package memory provides an in-process vector index used by tests and
// offline runs. Distances are cosine distances (1 - cosine similarity) so the
// ordering contract matches the Chroma store.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"policyrag/internal/domain"
)

type entry struct {
	id       string
	vector   []float64
	text     string
	metadata map[string]any
}

// Store is a brute-force in-memory implementation of domain.Index.
type Store struct {
	mu      sync.RWMutex
	created bool
	order   []string
	entries map[string]entry
}

// NewStore creates an empty store. The collection does not exist until
// EnsureCollection is called, mirroring a real index server.
func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

// EnsureCollection marks the collection as created.
func (s *Store) EnsureCollection(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = true
	return nil
}

// Upsert inserts or overwrites entries keyed by id.
func (s *Store) Upsert(ctx context.Context, ids []string, vectors [][]float64, texts []string, metadatas []map[string]any) error {
	if len(ids) != len(vectors) || len(ids) != len(texts) || len(ids) != len(metadatas) {
		return fmt.Errorf("%w: mismatched upsert array lengths", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.created {
		return fmt.Errorf("collection not created: %w", domain.ErrIndexNotFound)
	}
	for i, id := range ids {
		if _, exists := s.entries[id]; !exists {
			s.order = append(s.order, id)
		}
		s.entries[id] = entry{id: id, vector: vectors[i], text: texts[i], metadata: metadatas[i]}
	}
	return nil
}

// Query returns up to k entries ordered ascending by cosine distance.
func (s *Store) Query(ctx context.Context, vector []float64, k int) (domain.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.created {
		return domain.QueryResult{}, fmt.Errorf("collection not created: %w", domain.ErrIndexNotFound)
	}
	if k <= 0 {
		k = 5
	}
	type scored struct {
		entry    entry
		distance float64
	}
	ranked := make([]scored, 0, len(s.entries))
	for _, id := range s.order {
		e := s.entries[id]
		ranked = append(ranked, scored{entry: e, distance: 1 - cosine(e.vector, vector)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].distance < ranked[j].distance })
	if k > len(ranked) {
		k = len(ranked)
	}
	res := domain.QueryResult{
		Documents: make([]string, 0, k),
		Metadatas: make([]map[string]any, 0, k),
		Distances: make([]float64, 0, k),
	}
	for i := 0; i < k; i++ {
		res.Documents = append(res.Documents, ranked[i].entry.text)
		res.Metadatas = append(res.Metadatas, ranked[i].entry.metadata)
		res.Distances = append(res.Distances, ranked[i].distance)
	}
	return res, nil
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
