package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyrag/internal/domain"
)

func mdDoc(stem, content string) domain.Document {
	return domain.Document{
		Source:  stem + ".md",
		Stem:    stem,
		Kind:    domain.KindMarkdown,
		Content: content,
	}
}

func TestChunkMarkdownSmallSection(t *testing.T) {
	doc := mdDoc("leave_policy", `---
policy_id: POL-001
department: HR
---
# Eligibility
All full-time employees are eligible after probation.`)

	chunks, err := New().Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.Equal(t, "All full-time employees are eligible after probation.", c.Text)
	assert.Equal(t, "leave_policy-Eligibility", c.Metadata["chunk_id"])
	assert.Equal(t, "Eligibility", c.Metadata["section"])
	assert.Equal(t, "POL-001", c.Metadata["policy_id"])
	assert.Equal(t, "leave_policy.md", c.Metadata["source"])
	assert.Equal(t, "HR", c.Metadata["department"])
	assert.NotContains(t, c.Metadata, "subsection")
}

func TestChunkMarkdownLargeSectionIsResplit(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Details\n")
	for i := 0; i < 23; i++ {
		fmt.Fprintf(&b, "Sentence number %02d explains the leave accrual rules. ", i)
	}
	doc := mdDoc("leave_policy", b.String())

	chunks, err := New().Chunk(doc)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	for i, c := range chunks {
		assert.Equal(t, fmt.Sprintf("leave_policy-Details-%d", i), c.Metadata["chunk_id"])
		assert.Equal(t, "Details", c.Metadata["section"])
		assert.LessOrEqual(t, len(c.Text), 700)
	}
	for i := 1; i < len(chunks); i++ {
		assert.LessOrEqual(t, maxOverlap(chunks[i-1].Text, chunks[i].Text), 100)
	}
}

func TestChunkMarkdownSectionAtThresholdNotResplit(t *testing.T) {
	// Exactly 800 characters stays a single chunk; only strictly larger
	// sections go through the splitter.
	doc := mdDoc("doc", "# Body\n"+strings.Repeat("a", 800))

	chunks, err := New().Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "doc-Body", chunks[0].Metadata["chunk_id"])
}

func TestChunkMarkdownNoFrontmatterFallsBackToStem(t *testing.T) {
	doc := mdDoc("handbook", "# Intro\nWelcome aboard.")

	chunks, err := New().Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "handbook", chunks[0].Metadata["policy_id"])
}

func TestChunkMarkdownPreHeaderTextUsesMain(t *testing.T) {
	doc := mdDoc("notes", "just a preamble with no headers at all")

	chunks, err := New().Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "notes-main", chunks[0].Metadata["chunk_id"])
	assert.NotContains(t, chunks[0].Metadata, "section")
}

func TestChunkMarkdownSubsectionInID(t *testing.T) {
	doc := mdDoc("leave", "# Types\n## Casual\nFive days per year.")

	chunks, err := New().Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "leave-Types-Casual", chunks[0].Metadata["chunk_id"])
	assert.Equal(t, "Types", chunks[0].Metadata["section"])
	assert.Equal(t, "Casual", chunks[0].Metadata["subsection"])
}

func TestChunkMarkdownDuplicateHeadersGetDistinctIDs(t *testing.T) {
	doc := mdDoc("doc", "# Terms\nfirst block\n# Terms\nsecond block")

	chunks, err := New().Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "doc-Terms", chunks[0].Metadata["chunk_id"])
	assert.Equal(t, "doc-Terms-2", chunks[1].Metadata["chunk_id"])
}

func TestChunkEmptyDocument(t *testing.T) {
	for _, content := range []string{"", "   \n\n  ", "---\npolicy_id: P\n---\n"} {
		chunks, err := New().Chunk(mdDoc("empty", content))
		require.NoError(t, err)
		assert.Empty(t, chunks, "content %q should yield no chunks", content)
	}
}

func TestChunkIDsAreDeterministic(t *testing.T) {
	doc := mdDoc("leave_policy", `---
policy_id: POL-001
---
# Eligibility
All employees.
# Terms
Thirty days notice.`)

	c := New()
	first, err := c.Chunk(doc)
	require.NoError(t, err)
	second, err := c.Chunk(doc)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID(), second[i].ID())
	}
}

func TestChunkPDFPages(t *testing.T) {
	doc := domain.Document{
		Source: "scan.pdf",
		Stem:   "scan",
		Kind:   domain.KindPDF,
		Pages:  []string{"First page body.", "", "Third page body."},
	}

	chunks, err := New().Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "scan-p1-0", chunks[0].Metadata["chunk_id"])
	assert.Equal(t, 1, chunks[0].Metadata["page"])
	assert.Equal(t, "scan", chunks[0].Metadata["policy_id"])
	// Empty pages yield nothing; numbering still reflects the page position.
	assert.Equal(t, "scan-p3-0", chunks[1].Metadata["chunk_id"])
	assert.Equal(t, 3, chunks[1].Metadata["page"])
}
