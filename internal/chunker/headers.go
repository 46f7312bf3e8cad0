package chunker

import "strings"

// headerBlock is a run of body text tagged with the nearest enclosing level-1
// and level-2 headers seen so far.
type headerBlock struct {
	section    string
	subsection string
	text       string
}

// path renders the block's structural position for chunk ids: the section
// (or "main" for text before any header), joined with the subsection when set.
func (b headerBlock) path() string {
	p := b.section
	if p == "" {
		p = "main"
	}
	if b.subsection != "" {
		p += "-" + b.subsection
	}
	return p
}

// splitHeaders splits a markdown body on "#" and "##" headers. The current
// header state is an explicit accumulator folded through the lines: a level-1
// header starts a new section and clears the subsection, a level-2 header
// starts a new subsection. Header lines themselves are removed from the
// emitted text, and header-less trailing content inherits the last state.
// Blocks that are empty after trimming are not emitted.
func splitHeaders(body string) []headerBlock {
	var (
		blocks     []headerBlock
		buf        []string
		section    string
		subsection string
	)
	flush := func() {
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
		if text != "" {
			blocks = append(blocks, headerBlock{section: section, subsection: subsection, text: text})
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "## "):
			flush()
			subsection = strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))
		case strings.HasPrefix(trimmed, "# "):
			flush()
			section = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			subsection = ""
		default:
			buf = append(buf, line)
		}
	}
	flush()
	return blocks
}
