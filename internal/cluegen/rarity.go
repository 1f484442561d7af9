package cluegen

import (
	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/myrjola/avalanchemystery/internal/random"
	"github.com/shopspring/decimal"
)

//nolint:gochecknoglobals // price table
var baseValues = map[models.Rarity]decimal.Decimal{
	models.RarityCommon:    decimal.RequireFromString("0.5"),
	models.RarityUncommon:  decimal.RequireFromString("2"),
	models.RarityRare:      decimal.RequireFromString("8"),
	models.RarityLegendary: decimal.RequireFromString("25"),
}

// BaseValue is the market value of a clue of rarity r before variance.
func BaseValue(r models.Rarity) decimal.Decimal {
	return baseValues[r]
}

// lateClueShare is the fraction of the clue sequence after which clues count as late.
const lateClueShare = 0.7

// RarityWeights returns percentages ordered from rarest to most common, so a single draw in [0,100) reproduces the
// thresholds legendary < 3, rare < 15 and uncommon < 40. Late clues raise the legendary band to 8 and shift the
// others along.
func RarityWeights(clueNumber, totalClues int) []random.Weighted[models.Rarity] {
	legendary := 3.0
	if float64(clueNumber) > float64(totalClues)*lateClueShare {
		legendary = 8
	}
	return []random.Weighted[models.Rarity]{
		{Label: models.RarityLegendary, Weight: legendary},
		{Label: models.RarityRare, Weight: 12},                          //nolint:mnd // percent
		{Label: models.RarityUncommon, Weight: 25},                      //nolint:mnd // percent
		{Label: models.RarityCommon, Weight: 100 - legendary - 12 - 25}, //nolint:mnd // remainder
	}
}

// DetermineRarity draws the rarity of clue number clueNumber out of totalClues.
func DetermineRarity(src random.Source, clueNumber, totalClues int) models.Rarity {
	r, err := random.Choice(src, RarityWeights(clueNumber, totalClues))
	if err != nil {
		// The weights are constant and positive.
		return models.RarityCommon
	}
	return r
}

// DrawWeights are the relative odds of handing out each rarity to a player.
func DrawWeights() []random.Weighted[models.Rarity] {
	return []random.Weighted[models.Rarity]{
		{Label: models.RarityCommon, Weight: 60},   //nolint:mnd // percent
		{Label: models.RarityUncommon, Weight: 25}, //nolint:mnd // percent
		{Label: models.RarityRare, Weight: 12},     //nolint:mnd // percent
		{Label: models.RarityLegendary, Weight: 3}, //nolint:mnd // percent
	}
}
