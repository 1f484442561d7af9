package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
)

const culprit = "Dana Whitlock"

// scriptedBackend answers clue prompts with a labelled clue and every other prompt with a valid case.
type scriptedBackend struct {
	calls atomic.Int64
}

func newScriptedBackend() *scriptedBackend {
	return &scriptedBackend{calls: atomic.Int64{}}
}

func (b *scriptedBackend) Complete(_ context.Context, prompt string) (string, error) {
	b.calls.Add(1)
	if strings.Contains(prompt, "AVAX Concept:") {
		return "Description: The validator log shows the bridge multisig signed at 03:14.\n" +
			"AVAX Concept: Validator consensus", nil
	}
	return "```json\n" + caseJSON() + "\n```", nil
}

func caseJSON() string {
	names := []string{"Ava Lindqvist", "Bram Okafor", "Chidi Mensah", culprit, "Elif Kaya", "Felix Duarte"}
	suspects := make([]map[string]any, 0, len(names))
	for i, name := range names {
		suspects = append(suspects, map[string]any{
			"id":             i + 1,
			"name":           name,
			"age":            30 + i,
			"background":     "Runs a validator node on a gaming subnet",
			"possibleMotive": "Lost staking rewards after the upgrade",
			"avaxConnection": "Operates infrastructure for a liquidity pool",
		})
	}
	clues := make([]map[string]any, 0, 10)
	for i := range 10 {
		clues = append(clues, map[string]any{
			"id":          i + 1,
			"description": fmt.Sprintf("Ledger entry %d shows a bridge transfer", i+1),
			"avaxConcept": "Cross-chain bridge accounting",
			"difficulty":  "medium",
		})
	}
	b, err := json.Marshal(map[string]any{
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
			"culprit":     culprit,
			"motive":      "Cover staking losses",
			"explanation": "Only Dana had the multisig key used at 03:14.",
		},
		"educationalGoals": []string{"Understand how liquidity pools work"},
		"difficultyLevel":  "beginner",
	})
	if err != nil {
		panic(err)
	}
	return string(b)
}
