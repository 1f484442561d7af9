// Package cluegen writes marketplace clues of a drawn rarity and prices them.
package cluegen

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/glossary"
	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/myrjola/avalanchemystery/internal/random"
	"github.com/shopspring/decimal"
)

const (
	// PackageSize is the default number of clues in a package.
	PackageSize = 3
	// PackageSequenceLength is the clue sequence length packages are drawn against.
	PackageSequenceLength = 15
)

// Generator completes a prompt. *textgen.Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Synthesizer struct {
	logger   *slog.Logger
	gen      Generator
	glossary *glossary.Glossary
	src      random.Source
	now      func() time.Time
}

type Option func(*Synthesizer)

func WithSource(src random.Source) Option {
	return func(s *Synthesizer) { s.src = src }
}

func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) { s.now = now }
}

func New(logger *slog.Logger, gen Generator, g *glossary.Glossary, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		logger:   logger,
		gen:      gen,
		glossary: g,
		src:      random.NewSource(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SynthesizeClue writes clue number clueNumber of totalClues for a mystery. An answer that cannot be parsed yields a
// placeholder clue; backend failures are returned.
func (s *Synthesizer) SynthesizeClue(
	ctx context.Context,
	mysteryID string,
	totalClues int,
	clueNumber int,
) (models.MarketplaceClue, error) {
	rarity := DetermineRarity(s.src, clueNumber, totalClues)

	answer, err := s.gen.Generate(ctx, rarityPrompt(rarity))
	if err != nil {
		return models.MarketplaceClue{}, errors.Wrap(err, "generate clue",
			slog.String("mystery_id", mysteryID), slog.Int("clue_number", clueNumber))
	}

	description, concept := parseLabeled(answer)
	if description == "" {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "clue answer had no description, using placeholder",
			slog.String("mystery_id", mysteryID), slog.Int("clue_number", clueNumber))
		description = fmt.Sprintf("Evidence %d: A %s clue related to the Avalanche ecosystem has been found.",
			clueNumber, rarity)
	}
	if concept == "" {
		concept = "Basic blockchain transaction"
	}

	return models.MarketplaceClue{
		ID:               fmt.Sprintf("clue_%s_%d_%d", mysteryID, clueNumber, s.now().UnixMilli()),
		MysteryID:        mysteryID,
		ClueNumber:       clueNumber,
		Rarity:           rarity,
		Description:      description,
		Concept:          concept,
		EducationalLinks: s.glossary.Annotate(description, concept),
		MarketValue:      s.marketValue(rarity),
		IsRevealed:       false,
		RevealTimestamp:  nil,
	}, nil
}

// marketValue varies the base value by up to 20% either way, rounded to cents.
func (s *Synthesizer) marketValue(r models.Rarity) decimal.Decimal {
	variance := 0.8 + s.src.Float64()*0.4 //nolint:mnd // ±20%
	return BaseValue(r).Mul(decimal.NewFromFloat(variance)).Round(2)
}

// GeneratePackage writes size clues numbered from one. size defaults to PackageSize.
func (s *Synthesizer) GeneratePackage(ctx context.Context, mysteryID string, size int) ([]models.MarketplaceClue, error) {
	if size <= 0 {
		size = PackageSize
	}
	clues := make([]models.MarketplaceClue, 0, size)
	for i := 1; i <= size; i++ {
		clue, err := s.SynthesizeClue(ctx, mysteryID, PackageSequenceLength, i)
		if err != nil {
			return nil, errors.Wrap(err, "generate clue package")
		}
		clues = append(clues, clue)
	}
	return clues, nil
}

// sequenceRarity keeps the first two clues of an educational sequence common, the next two uncommon and the rest rare.
func sequenceRarity(i int) models.Rarity {
	switch {
	case i < 2: //nolint:mnd // see above
		return models.RarityCommon
	case i < 4: //nolint:mnd // see above
		return models.RarityUncommon
	default:
		return models.RarityRare
	}
}

// GenerateEducationalSequence writes one clue per concept, growing rarer along the sequence. Sequence clues are
// priced at their base value.
func (s *Synthesizer) GenerateEducationalSequence(
	ctx context.Context,
	mysteryID string,
	concepts []string,
) ([]models.MarketplaceClue, error) {
	clues := make([]models.MarketplaceClue, 0, len(concepts))
	for i, taught := range concepts {
		number := i + 1
		answer, err := s.gen.Generate(ctx, conceptPrompt(taught))
		if err != nil {
			return nil, errors.Wrap(err, "generate educational clue",
				slog.String("mystery_id", mysteryID), slog.String("concept", taught))
		}

		description, concept := parseLabeled(answer)
		if description == "" {
			description = fmt.Sprintf("Clue %d: Evidence related to %s has been discovered.", number, taught)
		}
		if concept == "" {
			concept = taught
		}
		rarity := sequenceRarity(i)
		clues = append(clues, models.MarketplaceClue{
			ID:               fmt.Sprintf("edu_clue_%s_%d_%d", mysteryID, number, s.now().UnixMilli()),
			MysteryID:        mysteryID,
			ClueNumber:       number,
			Rarity:           rarity,
			Description:      description,
			Concept:          concept,
			EducationalLinks: s.glossary.Annotate(description, concept),
			MarketValue:      BaseValue(rarity),
			IsRevealed:       false,
			RevealTimestamp:  nil,
		})
	}
	return clues, nil
}

// CalculatePrice is the current asking price of a clue. Demand scales the price linearly. Within the last 24 hours
// of a mystery the price climbs towards double, and legendary clues carry a 1.5x surcharge.
func CalculatePrice(clue models.MarketplaceClue, demandMultiplier float64, hoursRemaining float64) decimal.Decimal {
	if math.IsNaN(demandMultiplier) || math.IsInf(demandMultiplier, 0) || demandMultiplier <= 0 {
		demandMultiplier = 1
	}
	if math.IsNaN(hoursRemaining) || hoursRemaining < 0 {
		hoursRemaining = 0
	}
	// Urgency stays within [1, 2], so an infinite horizon prices at face value.
	urgency := math.Max(1, 2-hoursRemaining/24) //nolint:mnd // hours per day
	price := clue.MarketValue.
		Mul(decimal.NewFromFloat(demandMultiplier)).
		Mul(decimal.NewFromFloat(urgency))
	if clue.Rarity == models.RarityLegendary {
		price = price.Mul(decimal.RequireFromString("1.5"))
	}
	return price.Round(3) //nolint:mnd // three decimals
}
