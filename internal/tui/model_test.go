package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"policyrag/internal/domain"
)

func TestFormatOrigin(t *testing.T) {
	r := domain.SearchResult{Source: "leave_policy.md", Section: "Eligibility", PolicyID: "POL-001"}
	assert.Equal(t, "leave_policy.md · Eligibility  [POL-001]", formatOrigin(r))

	r = domain.SearchResult{Source: "scan.pdf"}
	assert.Equal(t, "scan.pdf", formatOrigin(r))
}

func TestTokenOverlapScore(t *testing.T) {
	q := toTokenSet("maternity leave duration")
	assert.Equal(t, 2, tokenOverlapScore(q, "Maternity leave is twenty six weeks."))
	assert.Equal(t, 0, tokenOverlapScore(q, "Formal dress is expected."))
	// Repeated query words in a sentence count once.
	assert.Equal(t, 1, tokenOverlapScore(q, "leave, leave and more leave"))
}

func TestToTokenSetNormalizes(t *testing.T) {
	set := toTokenSet("Leave! LEAVE? leave.")
	assert.Len(t, set, 1)
	_, ok := set["leave"]
	assert.True(t, ok)
}
