package ai

import (
	"regexp"
	"strings"
)

var (
	// jsonBlockPattern matches JSON inside markdown code blocks: ```json { ... } ```
	jsonBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	// jsonObjectPattern matches the outermost JSON object.
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON returns the JSON object embedded in a completion response, or "" when the
// response holds none. Markdown fences and surrounding prose are stripped; the object
// itself is returned as written.
func ExtractJSON(content string) string {
	if matches := jsonBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return strings.TrimSpace(jsonObjectPattern.FindString(content))
}
