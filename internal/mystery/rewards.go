package mystery

import (
	"encoding/base64"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 3

//nolint:gochecknoglobals // fixed split
var (
	mainShare          = decimal.RequireFromString("0.8")
	participationShare = decimal.RequireFromString("0.2")
)

// TimeCoefficient interpolates from 2 for a submission at start down to 1 for one at end. Submissions outside the
// window are clamped to the nearest bound.
func TimeCoefficient(start, end, at time.Time) float64 {
	total := end.Sub(start)
	if total <= 0 {
		return 1
	}
	remaining := float64(total-at.Sub(start)) / float64(total)
	return 1 + math.Min(1, math.Max(0, remaining))
}

// AnswerHash obscures the culprit from casual inspection. It is reversible.
func AnswerHash(culprit string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.ToLower(strings.TrimSpace(culprit))))
}

// Distribute splits pool between scored submissions. Correct solvers share 80% weighted by time coefficient and
// additionally receive their weighted share times (coefficient - 1) as a speed bonus. Incorrect submissions split
// the remaining 20% evenly. Without any correct submission everybody gets an equal share of the whole pool.
//
// The returned remainder is the part of the pool nobody received: the participation share when every submission
// was correct, or the whole pool when there were no submissions.
func Distribute(mysteryID string, pool decimal.Decimal, submissions []models.PlayerSubmission) (
	[]models.MysteryReward,
	decimal.Decimal,
) {
	rewards := make([]models.MysteryReward, 0, len(submissions))
	if len(submissions) == 0 {
		return rewards, pool
	}

	var correct, incorrect []models.PlayerSubmission
	for _, s := range submissions {
		if s.IsCorrect != nil && *s.IsCorrect {
			correct = append(correct, s)
		} else {
			incorrect = append(incorrect, s)
		}
	}

	if len(correct) == 0 {
		share := pool.Div(decimal.NewFromInt(int64(len(submissions)))).Round(moneyPlaces)
		for _, s := range submissions {
			rewards = append(rewards, participation(mysteryID, s, share))
		}
		return rewards, decimal.Zero
	}

	totalWeight := decimal.Zero
	for _, s := range correct {
		totalWeight = totalWeight.Add(decimal.NewFromFloat(s.TimeCoefficient))
	}
	mainPool := pool.Mul(mainShare)
	for _, s := range correct {
		weight := decimal.NewFromFloat(s.TimeCoefficient)
		base := weight.Div(totalWeight).Mul(mainPool)
		bonus := base.Mul(weight.Sub(decimal.NewFromInt(1)))
		rewards = append(rewards, models.MysteryReward{
			PlayerAddress:      s.PlayerAddress,
			SubmissionID:       s.ID,
			RewardAmount:       base.Add(bonus).Round(moneyPlaces),
			TimeBonus:          bonus.Round(moneyPlaces),
			ParticipationBonus: decimal.Zero,
			CollectibleID:      "",
			MysteryID:          mysteryID,
		})
	}

	participationPool := pool.Mul(participationShare)
	if len(incorrect) == 0 {
		return rewards, participationPool
	}
	share := participationPool.Div(decimal.NewFromInt(int64(len(incorrect)))).Round(moneyPlaces)
	for _, s := range incorrect {
		rewards = append(rewards, participation(mysteryID, s, share))
	}
	return rewards, decimal.Zero
}

func participation(mysteryID string, s models.PlayerSubmission, amount decimal.Decimal) models.MysteryReward {
	return models.MysteryReward{
		PlayerAddress:      s.PlayerAddress,
		SubmissionID:       s.ID,
		RewardAmount:       amount,
		TimeBonus:          decimal.Zero,
		ParticipationBonus: amount,
		CollectibleID:      "",
		MysteryID:          mysteryID,
	}
}

//nolint:gochecknoglobals // lookup table
var tierMultipliers = map[models.CollectibleTier]float64{
	models.TierLegendary:   10,
	models.TierEarlyBird:   5,
	models.TierSolver:      2,
	models.TierParticipant: 1,
}

// TierForRank maps a solver's placement to the collectible tier they earn.
func TierForRank(rank int) models.CollectibleTier {
	switch {
	case rank == 1:
		return models.TierLegendary
	case rank <= 3: //nolint:mnd // podium
		return models.TierEarlyBird
	default:
		return models.TierSolver
	}
}

// RarityScore ranks a collectible for display. Tier dominates, then placement relative to the field, then speed.
func RarityScore(tier models.CollectibleTier, rank, participants int, timeCoefficient float64) int {
	multiplier, ok := tierMultipliers[tier]
	if !ok {
		multiplier = 1
	}
	score := 100 * multiplier //nolint:mnd // base score
	if participants > 0 {
		score += math.Max(0, 100*(1-float64(rank)/float64(participants))) //nolint:mnd // rank bonus
	}
	score += 50 * (timeCoefficient - 1) //nolint:mnd // speed bonus
	return int(math.Round(score))
}

// rankSolvers orders correct submissions fastest first. Ties keep submission order.
func rankSolvers(submissions []models.PlayerSubmission) []models.PlayerSubmission {
	var solvers []models.PlayerSubmission
	for _, s := range submissions {
		if s.IsCorrect != nil && *s.IsCorrect {
			solvers = append(solvers, s)
		}
	}
	sort.SliceStable(solvers, func(i, j int) bool {
		return solvers[i].TimeCoefficient > solvers[j].TimeCoefficient
	})
	return solvers
}
