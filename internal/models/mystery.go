package models

// EducationalLink points a learner at documentation for an ecosystem term.
type EducationalLink struct {
	Term                string `json:"term"`
	URL                 string `json:"url"`
	BriefExplanation    string `json:"briefExplanation"`
	DetailedExplanation string `json:"detailedExplanation,omitempty"`
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

type ClueDifficulty string

const (
	ClueDifficultyEasy   ClueDifficulty = "easy"
	ClueDifficultyMedium ClueDifficulty = "medium"
	ClueDifficultyHard   ClueDifficulty = "hard"
)

func (d ClueDifficulty) Valid() bool {
	return d == ClueDifficultyEasy || d == ClueDifficultyMedium || d == ClueDifficultyHard
}

type Victim struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Background string `json:"background"`
	AvaxRole   string `json:"avaxRole"`
}

// Suspect is one of the six people who could have done it.
type Suspect struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	Age              int               `json:"age"`
	Background       string            `json:"background"`
	PossibleMotive   string            `json:"possibleMotive"`
	AvaxConnection   string            `json:"avaxConnection"`
	EducationalLinks []EducationalLink `json:"educationalLinks"`
}

// Clue is a piece of evidence authored together with the case.
type Clue struct {
	ID               int               `json:"id"`
	Description      string            `json:"description"`
	Concept          string            `json:"concept"`
	EducationalLinks []EducationalLink `json:"educationalLinks"`
	Difficulty       ClueDifficulty    `json:"difficulty"`
}

type Solution struct {
	Culprit     string `json:"culprit"`
	Motive      string `json:"motive"`
	Explanation string `json:"explanation"`
}

// MysteryCase is a complete, validated mystery. A case always has six suspects, at least ten clues and a culprit
// who is one of the suspects.
type MysteryCase struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	ShortDescription string     `json:"shortDescription"`
	Victim           Victim     `json:"victim"`
	Suspects         []Suspect  `json:"suspects"`
	Clues            []Clue     `json:"clues"`
	Solution         Solution   `json:"solution"`
	EducationalGoals []string   `json:"educationalGoals"`
	DifficultyLevel  Difficulty `json:"difficultyLevel"`
}
