package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHeadersCarriesStateForward(t *testing.T) {
	body := `intro before any header

# Leave Policy
general rules

## Casual Leave
five days per year

## Sick Leave
with certificate

# Appendix
forms and contacts`

	blocks := splitHeaders(body)
	require.Len(t, blocks, 5)

	assert.Equal(t, headerBlock{section: "", subsection: "", text: "intro before any header"}, blocks[0])
	assert.Equal(t, headerBlock{section: "Leave Policy", subsection: "", text: "general rules"}, blocks[1])
	assert.Equal(t, headerBlock{section: "Leave Policy", subsection: "Casual Leave", text: "five days per year"}, blocks[2])
	assert.Equal(t, headerBlock{section: "Leave Policy", subsection: "Sick Leave", text: "with certificate"}, blocks[3])
	// A new level-1 header resets the subsection.
	assert.Equal(t, headerBlock{section: "Appendix", subsection: "", text: "forms and contacts"}, blocks[4])
}

func TestSplitHeadersIgnoresDeeperLevels(t *testing.T) {
	body := "# Top\n### Not a split point\nstill the same block"

	blocks := splitHeaders(body)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Top", blocks[0].section)
	assert.Contains(t, blocks[0].text, "### Not a split point")
}

func TestSplitHeadersDropsEmptyBlocks(t *testing.T) {
	body := "# One\n\n# Two\nonly this has text"

	blocks := splitHeaders(body)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Two", blocks[0].section)
}

func TestHeaderBlockPath(t *testing.T) {
	assert.Equal(t, "main", headerBlock{}.path())
	assert.Equal(t, "Eligibility", headerBlock{section: "Eligibility"}.path())
	assert.Equal(t, "Leave-Casual", headerBlock{section: "Leave", subsection: "Casual"}.path())
	assert.Equal(t, "main-Casual", headerBlock{subsection: "Casual"}.path())
}
