package domain

import "context"

// Kind distinguishes the two supported document formats.
type Kind int

const (
	KindMarkdown Kind = iota
	KindPDF
)

// Document represents a single policy file loaded from the corpus directory.
// Markdown documents carry the full text in Content; PDF documents carry the
// extracted text of each page in Pages (the 1-based page number is the slice
// position plus one).
type Document struct {
	Source  string // file name, e.g. "leave_policy.md"
	Stem    string // file name without extension, fallback policy id
	Kind    Kind
	Content string
	Pages   []string
}

// Chunk is the atomic retrievable unit: a piece of text plus the metadata
// stored alongside it in the vector index.
type Chunk struct {
	Text     string
	Metadata map[string]any
}

// ID returns the chunk's upsert key.
func (c Chunk) ID() string {
	id, _ := c.Metadata["chunk_id"].(string)
	return id
}

// SearchResult is a retrieval hit with a normalized similarity score.
type SearchResult struct {
	Text     string
	Source   string
	Section  string
	PolicyID string
	Score    float64 // 1 - cosine distance, clamped to [0,1]
}

// QueryResult is the raw neighbour set returned by a vector index, ordered
// ascending by distance. The three slices are parallel.
type QueryResult struct {
	Documents []string
	Metadatas []map[string]any
	Distances []float64
}

// Embedder converts batches of texts into fixed-dimension vectors.
// Implementations must be length-preserving: one vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Chunker splits a document into ordered chunks with attached metadata.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Index persists chunk vectors and answers nearest-neighbour queries.
type Index interface {
	// EnsureCollection creates the backing collection if it does not exist.
	EnsureCollection(ctx context.Context) error
	// Upsert writes entries keyed by id; existing ids are overwritten.
	// All four slices must have equal length.
	Upsert(ctx context.Context, ids []string, vectors [][]float64, texts []string, metadatas []map[string]any) error
	// Query returns up to k neighbours ordered ascending by distance.
	// Returns ErrIndexNotFound if the collection has never been created.
	Query(ctx context.Context, vector []float64, k int) (QueryResult, error)
}
