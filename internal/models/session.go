package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of an active mystery. It only ever moves forward.
type Status string

const (
	StatusActive             Status = "active"
	StatusEnded              Status = "ended"
	StatusRewardsDistributed Status = "rewards_distributed"
)

// ActiveMystery is a case open for submissions during a time window with a prize pool.
type ActiveMystery struct {
	MysteryCase

	StartTime        time.Time       `json:"startTime"`
	EndTime          time.Time       `json:"endTime"`
	TotalPrizePool   decimal.Decimal `json:"totalPrizePool"`
	ParticipantCount int             `json:"participantCount"`
	Status           Status          `json:"status"`
	// CorrectAnswerHash obfuscates the culprit. It is an encoding, not a commitment.
	CorrectAnswerHash string `json:"correctAnswerHash"`
}

// PlayerSubmission is one accusation. IsCorrect and RewardAmount are set at settlement.
type PlayerSubmission struct {
	ID              string           `json:"id"`
	MysteryID       string           `json:"mysteryId"`
	PlayerAddress   string           `json:"playerAddress"`
	SuspectChoice   string           `json:"suspectChoice"`
	Explanation     string           `json:"explanation"`
	SubmissionTime  time.Time        `json:"submissionTime"`
	CluesUsed       []string         `json:"cluesUsed"`
	TimeCoefficient float64          `json:"timeCoefficient"`
	IsCorrect       *bool            `json:"isCorrect,omitempty"`
	RewardAmount    *decimal.Decimal `json:"rewardAmount,omitempty"`
}

// MysteryReward is a payout computed at settlement.
type MysteryReward struct {
	PlayerAddress      string          `json:"playerAddress"`
	SubmissionID       string          `json:"submissionId"`
	RewardAmount       decimal.Decimal `json:"rewardAmount"`
	TimeBonus          decimal.Decimal `json:"timeBonus"`
	ParticipationBonus decimal.Decimal `json:"participationBonus"`
	CollectibleID      string          `json:"nftTokenId,omitempty"`
	MysteryID          string          `json:"mysteryId"`
}

type CollectibleTier string

const (
	TierLegendary   CollectibleTier = "legendary"
	TierEarlyBird   CollectibleTier = "early_bird"
	TierSolver      CollectibleTier = "solver"
	TierParticipant CollectibleTier = "participant"
)

type CollectibleMetadata struct {
	MysteryTitle      string        `json:"mysteryTitle"`
	SolveTime         time.Duration `json:"solveTime"`
	Rank              int           `json:"rank"`
	TotalParticipants int           `json:"totalParticipants"`
	CluesUsed         int           `json:"cluesUsed"`
	RarityScore       int           `json:"rarityScore"`
}

// Collectible is the placement token issued to correct solvers. Minting on chain is out of scope.
type Collectible struct {
	TokenID       string              `json:"tokenId"`
	MysteryID     string              `json:"mysteryId"`
	PlayerAddress string              `json:"playerAddress"`
	Tier          CollectibleTier     `json:"tier"`
	ImageURL      string              `json:"imageUrl"`
	Metadata      CollectibleMetadata `json:"metadata"`
}

// Settlement is the outcome of closing a mystery.
type Settlement struct {
	MysteryID    string          `json:"mysteryId"`
	Rewards      []MysteryReward `json:"rewards"`
	Collectibles []Collectible   `json:"collectibles"`
	// Unallocated is the part of the pool nobody received, kept as protocol revenue.
	Unallocated decimal.Decimal `json:"unallocated"`
	SettledAt   time.Time       `json:"settledAt"`
}
