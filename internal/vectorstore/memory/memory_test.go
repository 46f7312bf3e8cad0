package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyrag/internal/domain"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx))
	err := s.Upsert(ctx,
		[]string{"a", "b", "c"},
		[][]float64{{1, 0}, {0, 1}, {1, 1}},
		[]string{"text a", "text b", "text c"},
		[]map[string]any{{"chunk_id": "a"}, {"chunk_id": "b"}, {"chunk_id": "c"}},
	)
	require.NoError(t, err)
}

func TestQueryBeforeEnsure(t *testing.T) {
	s := NewStore()
	_, err := s.Query(context.Background(), []float64{1, 0}, 3)
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestUpsertBeforeEnsure(t *testing.T) {
	s := NewStore()
	err := s.Upsert(context.Background(), []string{"a"}, [][]float64{{1}}, []string{"t"}, []map[string]any{{}})
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestUpsertMismatchedLengths(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.EnsureCollection(context.Background()))
	err := s.Upsert(context.Background(), []string{"a", "b"}, [][]float64{{1}}, []string{"t"}, []map[string]any{{}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQueryOrdersByDistance(t *testing.T) {
	s := NewStore()
	seed(t, s)

	res, err := s.Query(context.Background(), []float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, res.Documents, 3)

	// Closest to (1,0) is "a", then "c" at 45 degrees, then the orthogonal "b".
	assert.Equal(t, []string{"text a", "text c", "text b"}, res.Documents)
	for i := 1; i < len(res.Distances); i++ {
		assert.LessOrEqual(t, res.Distances[i-1], res.Distances[i])
	}
	assert.InDelta(t, 0, res.Distances[0], 1e-9)
	assert.InDelta(t, 1, res.Distances[2], 1e-9)
}

func TestQueryFewerThanK(t *testing.T) {
	s := NewStore()
	seed(t, s)

	res, err := s.Query(context.Background(), []float64{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, res.Documents, 3)
	assert.Len(t, res.Metadatas, 3)
	assert.Len(t, res.Distances, 3)
}

func TestUpsertOverwritesByID(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	err := s.Upsert(ctx, []string{"a"}, [][]float64{{1, 0}}, []string{"text a v2"}, []map[string]any{{"chunk_id": "a"}})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	res, err := s.Query(ctx, []float64{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "text a v2", res.Documents[0])
}

func TestQueryDefaultK(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx))
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	vectors := make([][]float64, len(ids))
	texts := make([]string, len(ids))
	metas := make([]map[string]any, len(ids))
	for i := range ids {
		vectors[i] = []float64{1, float64(i)}
		texts[i] = ids[i]
		metas[i] = map[string]any{}
	}
	require.NoError(t, s.Upsert(ctx, ids, vectors, texts, metas))

	res, err := s.Query(ctx, []float64{1, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, res.Documents, 5)
}
