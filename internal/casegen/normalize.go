package casegen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/avalanchemystery/internal/models"
)

// caseDefaults is the single place that decides what a missing or malformed field becomes.
//
//nolint:gochecknoglobals // declarative table
var caseDefaults = struct {
	id               func(theme Theme, now time.Time) string
	title            func(theme Theme) string
	shortDescription string
	victim           models.Victim
	suspectName      func(i int) string
	suspectAge       int
	background       string
	motive           string
	connection       string
	clueDifficulty   models.ClueDifficulty
	solution         models.Solution
	goals            func(theme Theme, d models.Difficulty) []string
}{
	id: func(theme Theme, now time.Time) string {
		return fmt.Sprintf("%s_%d_%s", theme.Name, now.UnixMilli(), uuid.NewString())
	},
	title: func(theme Theme) string {
		return fmt.Sprintf("The %s Mystery", strings.ReplaceAll(theme.Name, "_", " "))
	},
	shortDescription: "A mysterious case unfolds in the Avalanche ecosystem...",
	victim: models.Victim{
		Name:       "Unknown",
		Age:        40, //nolint:mnd // default age
		Background: "Member of AVAX ecosystem",
		AvaxRole:   "Participant",
	},
	suspectName:    func(i int) string { return fmt.Sprintf("Suspect %d", i+1) },
	suspectAge:     40, //nolint:mnd // default age
	background:     "Member of AVAX ecosystem",
	motive:         "Unknown",
	connection:     "Participant",
	clueDifficulty: models.ClueDifficultyMedium,
	solution: models.Solution{
		Culprit:     "TBD",
		Motive:      "Unknown",
		Explanation: "Investigation reveals the truth...",
	},
	goals: func(theme Theme, d models.Difficulty) []string { return theme.defaultGoals(d) },
}

// Normalize turns a validated draft into a case, filling every missing field from caseDefaults. Educational links
// are left empty for the annotator.
func Normalize(d *Draft, theme Theme, difficulty models.Difficulty, now time.Time) models.MysteryCase {
	def := caseDefaults

	c := models.MysteryCase{
		ID:               def.id(theme, now),
		Title:            d.Title.or(def.title(theme)),
		ShortDescription: d.ShortDescription.or(def.shortDescription),
		Victim:           def.victim,
		Suspects:         make([]models.Suspect, len(d.Suspects)),
		Clues:            make([]models.Clue, len(d.Clues)),
		Solution:         def.solution,
		EducationalGoals: nil,
		DifficultyLevel:  difficulty,
	}
	if d.ID.kind == kindString && d.ID.value != "" {
		c.ID = d.ID.value
	}

	if v := d.Victim; v != nil {
		c.Victim = models.Victim{
			Name:       v.Name.or(def.victim.Name),
			Age:        v.Age.or(def.victim.Age),
			Background: v.Background.or(def.victim.Background),
			AvaxRole:   v.AvaxRole.or(def.victim.AvaxRole),
		}
	}

	for i, s := range d.Suspects {
		c.Suspects[i] = models.Suspect{
			ID:               s.ID.or(i + 1),
			Name:             s.Name.or(def.suspectName(i)),
			Age:              s.Age.or(def.suspectAge),
			Background:       s.Background.or(def.background),
			PossibleMotive:   s.PossibleMotive.or(def.motive),
			AvaxConnection:   s.AvaxConnection.or(def.connection),
			EducationalLinks: []models.EducationalLink{},
		}
	}

	for i, cl := range d.Clues {
		difficulty := models.ClueDifficulty(cl.Difficulty.value)
		if !difficulty.Valid() {
			difficulty = def.clueDifficulty
		}
		c.Clues[i] = models.Clue{
			ID:               cl.ID.or(i + 1),
			Description:      cl.Description.value,
			Concept:          cl.Concept.or(cl.AvaxConcept.value),
			EducationalLinks: []models.EducationalLink{},
			Difficulty:       difficulty,
		}
	}

	if s := d.Solution; s != nil {
		c.Solution = models.Solution{
			Culprit:     s.Culprit.or(def.solution.Culprit),
			Motive:      s.Motive.or(def.solution.Motive),
			Explanation: s.Explanation.or(def.solution.Explanation),
		}
	}

	for _, g := range d.EducationalGoals {
		if g.set() {
			c.EducationalGoals = append(c.EducationalGoals, g.value)
		}
	}
	if len(c.EducationalGoals) == 0 {
		c.EducationalGoals = def.goals(theme, difficulty)
	}

	if level := models.Difficulty(d.DifficultyLevel.value); level.Valid() {
		c.DifficultyLevel = level
	}

	return c
}

// DraftFromCase converts a case back into a fully populated draft. Normalizing the result yields the same case.
func DraftFromCase(c models.MysteryCase) *Draft {
	d := &Draft{
		ID:               str(c.ID),
		Title:            str(c.Title),
		ShortDescription: str(c.ShortDescription),
		Victim: &DraftVictim{
			Name:       str(c.Victim.Name),
			Age:        num(c.Victim.Age),
			Background: str(c.Victim.Background),
			AvaxRole:   str(c.Victim.AvaxRole),
		},
		Suspects: make([]DraftSuspect, len(c.Suspects)),
		Clues:    make([]DraftClue, len(c.Clues)),
		Solution: &DraftSolution{
			Culprit:     str(c.Solution.Culprit),
			Motive:      str(c.Solution.Motive),
			Explanation: str(c.Solution.Explanation),
		},
		EducationalGoals: make([]looseString, len(c.EducationalGoals)),
		DifficultyLevel:  str(string(c.DifficultyLevel)),
	}
	for i, s := range c.Suspects {
		d.Suspects[i] = DraftSuspect{
			ID:             num(s.ID),
			Name:           str(s.Name),
			Age:            num(s.Age),
			Background:     str(s.Background),
			PossibleMotive: str(s.PossibleMotive),
			AvaxConnection: str(s.AvaxConnection),
		}
	}
	for i, cl := range c.Clues {
		d.Clues[i] = DraftClue{
			ID:          num(cl.ID),
			Description: str(cl.Description),
			AvaxConcept: str(cl.Concept),
			Concept:     str(cl.Concept),
			Difficulty:  str(string(cl.Difficulty)),
		}
	}
	for i, g := range c.EducationalGoals {
		d.EducationalGoals[i] = str(g)
	}
	return d
}
