package casegen_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/stretchr/testify/require"
)

var suspectNames = []string{"Ava Lindqvist", "Bram Okafor", "Chidi Mensah", "Dana Whitlock", "Elif Kaya", "Felix Duarte"}

// caseFixture returns a valid generated case as loosely typed JSON so tests can break it in specific ways.
func caseFixture() map[string]any {
	suspects := make([]any, 0, len(suspectNames))
	for i, name := range suspectNames {
		suspects = append(suspects, map[string]any{
			"id":             i + 1,
			"name":           name,
			"age":            30 + i,
			"background":     "Runs a validator node on a gaming subnet",
			"possibleMotive": "Lost staking rewards after the upgrade",
			"avaxConnection": "Operates infrastructure for a liquidity pool",
		})
	}
	clues := make([]any, 0, 10)
	for i := range 10 {
		clues = append(clues, map[string]any{
			"id":          i + 1,
			"description": fmt.Sprintf("Ledger entry %d shows a bridge transfer at 03:1%d", i+1, i),
			"avaxConcept": "Cross-chain bridge accounting",
			"difficulty":  "hard",
		})
	}
	return map[string]any{
		"id":               "defi_heist_fixture",
		"title":            "The Drained Pool",
		"shortDescription": "Twelve million AVAX vanished from a liquidity pool overnight.",
		"victim": map[string]any{
			"name":       "Quinn Abara",
			"age":        44,
			"background": "Protocol founder",
			"avaxRole":   "Liquidity provider",
		},
		"suspects": suspects,
		"clues":    clues,
		"solution": map[string]any{
			"culprit":     "Dana Whitlock",
			"motive":      "Cover staking losses",
			"explanation": "Only Dana had the multisig key used at 03:14.",
		},
		"educationalGoals": []any{"Understand how liquidity pools work"},
		"difficultyLevel":  "intermediate",
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func suspectAt(c map[string]any, i int) map[string]any {
	return c["suspects"].([]any)[i].(map[string]any) //nolint:forcetypeassert // fixture shape is known
}

// scriptedGenerator answers prompts from a script and remembers what it was asked.
type scriptedGenerator struct {
	answers []string
	errs    []error
	prompts []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i >= len(g.answers) {
		return "", errors.New("script exhausted")
	}
	return g.answers[i], nil
}
