package cluegen

import (
	"strings"
)

// parseLabeled finds the "Description:" and "AVAX Concept:" lines of a clue answer. Either result is empty when its
// line is missing or blank once the label is removed.
func parseLabeled(answer string) (string, string) {
	var description, concept string
	for _, line := range strings.Split(answer, "\n") {
		if description == "" {
			if rest, ok := afterLabel(line, "description:"); ok {
				description = rest
				continue
			}
		}
		if concept == "" {
			if rest, ok := afterLabel(line, "avax concept:"); ok {
				concept = rest
			} else if rest, ok = afterLabel(line, "concept:"); ok {
				concept = rest
			}
		}
	}
	return description, concept
}

// afterLabel returns the cleaned text following label, matched case-insensitively.
func afterLabel(line, label string) (string, bool) {
	i := strings.Index(strings.ToLower(line), label)
	if i < 0 {
		return "", false
	}
	return clean(line[i+len(label):]), true
}

// clean removes whitespace and the markdown emphasis models like to wrap labels in.
func clean(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_"))
}
