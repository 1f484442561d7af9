package casegen

import (
	"fmt"
	"strings"

	"github.com/myrjola/avalanchemystery/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// bannedNames were handed out so often by the model that cases started to look alike.
var bannedNames = []string{"marina chen", "dr. robert hayes", "sofia rodriguez", "james park"} //nolint:gochecknoglobals,lll // denylist

const caseSchema = `{
  "id": string,
  "title": string,
  "shortDescription": string,
  "victim": { "name": string, "age": number, "background": string, "avaxRole": string },
  "suspects": [ { "id": number, "name": string, "age": number, "background": string, "possibleMotive": string, "avaxConnection": string } ],
  "clues": [ { "id": number, "description": string, "avaxConcept": string, "difficulty": "easy"|"medium"|"hard" } ],
  "solution": { "culprit": string, "motive": string, "explanation": string },
  "educationalGoals": string[],
  "difficultyLevel": "beginner"|"intermediate"|"advanced"
}`

const casePromptTemplate = `%s

You MUST produce a fully coherent case where story, suspects, clues, and solution logically connect. Each clue must help narrow suspects toward the final culprit; each suspect's background and motive must align with the shortDescription and solution.

Output STRICT JSON only (no markdown, no commentary). Use this exact schema:
%s

Constraints:
- Tailor suspects and clues to the exact incident described.
- Reference real Avalanche protocols where appropriate.
- Ensure the culprit in solution is one of the suspects; clues should justify the conclusion.
- Difficulty is %s.
- Provide exactly %d suspects (not more, not less) and at least %d clues.
`

const repairPromptTemplate = `You attempted a case but it was invalid or reused generic suspects/clues. Repair it now.
Theme: %s
Incident: %s
Difficulty: %s
Strictly output RAW JSON only (no markdown, no triple backticks) matching this schema:
%s
Rules:
- Provide exactly %d suspects (not more, not less) and at least %d clues.
- Make them unique to the story; do NOT use these names: %s.
- Culprit must be one suspect; clues must justify who and why.
`

func casePrompt(theme Theme, difficulty models.Difficulty) string {
	return fmt.Sprintf(casePromptTemplate, theme.Brief, caseSchema, difficulty, SuspectCount, MinClues)
}

func repairPrompt(theme Theme, difficulty models.Difficulty) string {
	return fmt.Sprintf(repairPromptTemplate,
		theme.Name, theme.Brief, difficulty, caseSchema, SuspectCount, MinClues, displayNames(bannedNames))
}

// displayNames title cases the denylist for the prompt.
func displayNames(names []string) string {
	title := cases.Title(language.English)
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = title.String(n)
	}
	return strings.Join(out, ", ")
}
