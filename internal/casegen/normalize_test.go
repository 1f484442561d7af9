package casegen_test

import (
	"strings"
	"testing"
	"time"

	"github.com/myrjola/avalanchemystery/internal/casegen"
	"github.com/myrjola/avalanchemystery/internal/glossary"
	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defiHeist(t *testing.T) casegen.Theme {
	t.Helper()
	theme, ok := casegen.ThemeByName("defi_heist")
	require.True(t, ok)
	return theme
}

func TestNormalizeFillsDefaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := `{
		"title": "Sparse",
		"shortDescription": "Barely described",
		"victim": {"age": "forty"},
		"suspects": [{"name": "Ada"}, {"id": 7, "name": "Bo", "age": 51}],
		"clues": [{"description": "A receipt", "avaxConcept": "Gas Fees", "difficulty": "extreme"}],
		"solution": {"culprit": "Ada"},
		"educationalGoals": [],
		"difficultyLevel": "expert"
	}`
	d, err := casegen.ParseDraft(doc)
	require.NoError(t, err)

	theme := defiHeist(t)
	c := casegen.Normalize(d, theme, models.DifficultyAdvanced, now)

	assert.True(t, strings.HasPrefix(c.ID, "defi_heist_1740830400000_"), c.ID)
	assert.Equal(t, "Sparse", c.Title)
	assert.Equal(t, models.Victim{
		Name:       "Unknown",
		Age:        40,
		Background: "Member of AVAX ecosystem",
		AvaxRole:   "Participant",
	}, c.Victim)

	require.Len(t, c.Suspects, 2)
	assert.Equal(t, 1, c.Suspects[0].ID)
	assert.Equal(t, 40, c.Suspects[0].Age)
	assert.Equal(t, "Member of AVAX ecosystem", c.Suspects[0].Background)
	assert.Equal(t, 7, c.Suspects[1].ID)
	assert.Equal(t, 51, c.Suspects[1].Age)

	require.Len(t, c.Clues, 1)
	assert.Equal(t, 1, c.Clues[0].ID)
	assert.Equal(t, "Gas Fees", c.Clues[0].Concept)
	assert.Equal(t, models.ClueDifficultyMedium, c.Clues[0].Difficulty)

	assert.Equal(t, "Ada", c.Solution.Culprit)
	assert.Equal(t, "Unknown", c.Solution.Motive)
	assert.Equal(t, "Investigation reveals the truth...", c.Solution.Explanation)
	assert.Equal(t, theme.Goals, c.EducationalGoals)
	assert.Equal(t, models.DifficultyAdvanced, c.DifficultyLevel)
}

func TestNormalizeKeepsProvidedValues(t *testing.T) {
	d, err := casegen.ParseDraft(mustJSON(t, caseFixture()))
	require.NoError(t, err)

	c := casegen.Normalize(d, defiHeist(t), models.DifficultyBeginner, time.Now())
	assert.Equal(t, "defi_heist_fixture", c.ID)
	assert.Equal(t, models.DifficultyIntermediate, c.DifficultyLevel)
	assert.Equal(t, []string{"Understand how liquidity pools work"}, c.EducationalGoals)
	assert.Equal(t, "Cross-chain bridge accounting", c.Clues[0].Concept)
	assert.Equal(t, models.ClueDifficultyHard, c.Clues[0].Difficulty)
	assert.Equal(t, 44, c.Victim.Age)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	g := glossary.Default()
	theme := defiHeist(t)
	d, err := casegen.ParseDraft(mustJSON(t, caseFixture()))
	require.NoError(t, err)

	first := casegen.Normalize(d, theme, models.DifficultyBeginner, time.Now())
	g.AnnotateCase(&first)

	second := casegen.Normalize(casegen.DraftFromCase(first), theme, models.DifficultyAdvanced, time.Now())
	g.AnnotateCase(&second)

	require.Equal(t, first, second)
	require.NoError(t, casegen.Validate(casegen.DraftFromCase(second)))
}
