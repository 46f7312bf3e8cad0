// Package chunker turns policy documents into retrievable chunks with
// attached metadata and deterministic ids.
package chunker

import (
	"fmt"

	"policyrag/internal/domain"
)

const (
	// Sections longer than this are re-split by the recursive splitter.
	largeChunkThreshold = 800
	targetChunkSize     = 700
	chunkOverlap        = 100
)

// PolicyChunker implements domain.Chunker for markdown and PDF documents.
type PolicyChunker struct {
	splitter *RecursiveSplitter
}

// New creates a chunker with the standard 700/100 splitter.
func New() *PolicyChunker {
	return &PolicyChunker{splitter: NewRecursiveSplitter(targetChunkSize, chunkOverlap)}
}

// Chunk splits a document into ordered chunks. An empty document yields zero
// chunks, not an error. Chunk ids are a pure function of the document stem and
// the chunk's structural position, so re-ingesting an unchanged document
// produces identical ids.
func (c *PolicyChunker) Chunk(doc domain.Document) ([]domain.Chunk, error) {
	switch doc.Kind {
	case domain.KindPDF:
		return c.chunkPDF(doc), nil
	default:
		return c.chunkMarkdown(doc), nil
	}
}

func (c *PolicyChunker) chunkMarkdown(doc domain.Document) []domain.Chunk {
	front, body := extractFrontmatter(doc.Content)
	policyID := doc.Stem
	if v, ok := front["policy_id"]; ok {
		if s := fmt.Sprint(v); s != "" {
			policyID = s
		}
	}

	ids := idSet{}
	var chunks []domain.Chunk
	for _, block := range splitHeaders(body) {
		base := doc.Stem + "-" + block.path()
		if len(block.text) > largeChunkThreshold {
			for i, piece := range c.splitter.Split(block.text) {
				id := ids.claim(fmt.Sprintf("%s-%d", base, i))
				chunks = append(chunks, newChunk(piece, front, block, doc.Source, policyID, id))
			}
			continue
		}
		chunks = append(chunks, newChunk(block.text, front, block, doc.Source, policyID, ids.claim(base)))
	}
	return chunks
}

func (c *PolicyChunker) chunkPDF(doc domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for pageIdx, page := range doc.Pages {
		for j, piece := range c.splitter.Split(page) {
			chunks = append(chunks, domain.Chunk{
				Text: piece,
				Metadata: map[string]any{
					"source":    doc.Source,
					"policy_id": doc.Stem,
					"page":      pageIdx + 1,
					"chunk_id":  fmt.Sprintf("%s-p%d-%d", doc.Stem, pageIdx+1, j),
				},
			})
		}
	}
	return chunks
}

// newChunk assembles chunk metadata: frontmatter first, then the header state
// and the identity fields, which win on key collisions.
func newChunk(text string, front map[string]any, block headerBlock, source, policyID, chunkID string) domain.Chunk {
	meta := make(map[string]any, len(front)+5)
	for k, v := range front {
		meta[k] = v
	}
	if block.section != "" {
		meta["section"] = block.section
	}
	if block.subsection != "" {
		meta["subsection"] = block.subsection
	}
	meta["source"] = source
	meta["policy_id"] = policyID
	meta["chunk_id"] = chunkID
	return domain.Chunk{Text: text, Metadata: meta}
}

// idSet hands out unique chunk ids within one document. Duplicate headers
// would render the same id base; the second and later claims get a
// deterministic numeric suffix so the batch never contains colliding keys.
type idSet map[string]int

func (s idSet) claim(id string) string {
	s[id]++
	if n := s[id]; n > 1 {
		return fmt.Sprintf("%s-%d", id, n)
	}
	return id
}
