package chunker

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// extractFrontmatter parses an optional YAML metadata block delimited by "---"
// at the very start of a markdown document and returns it together with the
// remaining body. Absent or malformed frontmatter yields an empty map and the
// content unchanged; it is never an error.
func extractFrontmatter(content string) (map[string]any, string) {
	if !strings.HasPrefix(content, "---") {
		return map[string]any{}, content
	}
	parts := strings.SplitN(content, "---", 3)[1:]
	if len(parts) != 2 {
		return map[string]any{}, content
	}
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(parts[0]), &raw); err != nil || raw == nil {
		return map[string]any{}, content
	}
	meta := make(map[string]any, len(raw))
	for key, value := range raw {
		meta[key] = scalarize(value)
	}
	return meta, parts[1]
}

// scalarize keeps numbers, booleans and strings as-is and coerces everything
// else (dates, lists, nested maps) to its string representation, so chunk
// metadata stays flat.
func scalarize(value any) any {
	switch value.(type) {
	case int, int64, uint64, float64, bool, string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
