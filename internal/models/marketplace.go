package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rarity of a marketplace clue. Rarer clues are worth more and are drawn less often.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists every rarity from most to least common.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityLegendary} //nolint:gochecknoglobals // enum

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityLegendary:
		return true
	default:
		return false
	}
}

// MarketplaceClue is a tradeable clue stocked for one active mystery.
type MarketplaceClue struct {
	ID               string            `json:"id"`
	MysteryID        string            `json:"mysteryId"`
	ClueNumber       int               `json:"clueNumber"`
	Rarity           Rarity            `json:"rarity"`
	Description      string            `json:"description"`
	Concept          string            `json:"concept"`
	EducationalLinks []EducationalLink `json:"educationalLinks"`
	MarketValue      decimal.Decimal   `json:"marketValue"`
	IsRevealed       bool              `json:"isRevealed"`
	RevealTimestamp  *time.Time        `json:"revealTimestamp,omitempty"`
}

// ClueEarning records a clue a player earned by completing mini games.
type ClueEarning struct {
	ClueID             string    `json:"clueId"`
	PlayerAddress      string    `json:"playerAddress"`
	EarnedAt           time.Time `json:"earnedAt"`
	MiniGamesCompleted int       `json:"miniGamesCompleted"`
}
