package mystery

import (
	"fmt"
	"strings"

	"github.com/myrjola/avalanchemystery/internal/models"
)

// EducationalSummary describes what a case teaches in a few lines of plain text.
func EducationalSummary(c models.MysteryCase) string {
	var b strings.Builder
	b.WriteString("Educational impact summary\n")
	fmt.Fprintf(&b, "- %d core Avalanche concepts taught through gameplay\n", len(c.EducationalGoals))
	fmt.Fprintf(&b, "- %d ecosystem roles represented by the suspects\n", len(c.Suspects))
	fmt.Fprintf(&b, "- %d interactive learning moments in the clues\n", len(c.Clues))
	fmt.Fprintf(&b, "- Difficulty: %s\n", c.DifficultyLevel)
	if len(c.EducationalGoals) > 0 {
		b.WriteString("\nKey concepts covered\n")
		for _, goal := range c.EducationalGoals {
			fmt.Fprintf(&b, "- %s\n", goal)
		}
	}

	seen := make(map[string]struct{})
	var terms []string
	collect := func(links []models.EducationalLink) {
		for _, l := range links {
			if _, ok := seen[l.Term]; !ok {
				seen[l.Term] = struct{}{}
				terms = append(terms, l.Term)
			}
		}
	}
	for _, s := range c.Suspects {
		collect(s.EducationalLinks)
	}
	for _, cl := range c.Clues {
		collect(cl.EducationalLinks)
	}
	if len(terms) > 0 {
		fmt.Fprintf(&b, "\nWeb3 terms explained: %s\n", strings.Join(terms, ", "))
	}
	return b.String()
}
