package chunker

import "strings"

// defaultSeparators orders split boundaries from coarse to fine: paragraph,
// line, sentence, word, then a hard character cut as the last resort.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveSplitter breaks long text into windows of at most chunkSize
// characters with a trailing overlap carried into the next window. It prefers
// the largest boundary present in the text and only falls back to finer ones
// for fragments that are still too long.
type RecursiveSplitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewRecursiveSplitter creates a splitter targeting chunkSize characters with
// the given overlap between consecutive windows.
func NewRecursiveSplitter(chunkSize, overlap int) *RecursiveSplitter {
	if chunkSize <= 0 {
		chunkSize = 700
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &RecursiveSplitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// Split returns the ordered windows for text. Windows are trimmed and empty
// ones dropped; concatenating them reproduces the input modulo whitespace at
// boundaries and the declared overlap.
func (s *RecursiveSplitter) Split(text string) []string {
	var out []string
	for _, piece := range s.split(text, s.separators) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

func (s *RecursiveSplitter) split(text string, separators []string) []string {
	sep := ""
	var rest []string
	for i, candidate := range separators {
		if candidate == "" {
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}
	if sep == "" {
		return s.hardCut(text)
	}

	fragments := splitAfter(text, sep)
	var final []string
	var pending []string
	flush := func() {
		if len(pending) > 0 {
			final = append(final, s.merge(pending)...)
			pending = nil
		}
	}
	for _, fragment := range fragments {
		if len(fragment) < s.chunkSize {
			pending = append(pending, fragment)
			continue
		}
		// Oversized fragment: emit what we have, then recurse with the
		// remaining, finer separators.
		flush()
		final = append(final, s.split(fragment, rest)...)
	}
	flush()
	return final
}

// merge greedily packs fragments (which keep their trailing separator) into
// windows of at most chunkSize characters. When a window closes, fragments are
// dropped from its front until at most overlap characters remain; those carry
// over as the start of the next window.
func (s *RecursiveSplitter) merge(fragments []string) []string {
	var out []string
	var window []string
	total := 0
	for _, fragment := range fragments {
		if total > 0 && total+len(fragment) > s.chunkSize {
			out = append(out, strings.Join(window, ""))
			for len(window) > 0 && (total > s.overlap || total+len(fragment) > s.chunkSize) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, fragment)
		total += len(fragment)
	}
	if len(window) > 0 {
		out = append(out, strings.Join(window, ""))
	}
	return out
}

// hardCut is the character-level fallback for text with no usable boundary.
func (s *RecursiveSplitter) hardCut(text string) []string {
	if text == "" {
		return nil
	}
	step := s.chunkSize - s.overlap
	var out []string
	for start := 0; start < len(text); start += step {
		end := start + s.chunkSize
		if end >= len(text) {
			out = append(out, text[start:])
			break
		}
		out = append(out, text[start:end])
	}
	return out
}

// splitAfter splits text on sep keeping the separator attached to the end of
// each fragment, so no characters are lost when fragments are re-joined.
func splitAfter(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}
