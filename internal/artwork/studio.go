package artwork

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/models"
)

const collectiblePromptTemplate = `Create a Victorian detective-themed collectible artwork for a Web3 mystery game winner.
Theme: %s
Rank: %d out of %d
Tier: %s
Style: Steampunk, ornate, mysterious, with Avalanche branding elements
Include: Detective elements, gears, Victorian aesthetics, rank indicator`

// Studio paints collectible artwork and publishes it.
type Studio struct {
	logger  *slog.Logger
	painter Painter
	store   *Store
}

func NewStudio(logger *slog.Logger, painter Painter, store *Store) *Studio {
	return &Studio{
		logger:  logger,
		painter: painter,
		store:   store,
	}
}

// Illustrate paints artwork for c and returns where it was published.
func (s *Studio) Illustrate(ctx context.Context, c models.Collectible) (string, error) {
	prompt := fmt.Sprintf(collectiblePromptTemplate,
		c.Metadata.MysteryTitle, c.Metadata.Rank, c.Metadata.TotalParticipants, c.Tier)
	img, err := s.painter.Paint(ctx, prompt)
	if err != nil {
		return "", errors.Wrap(err, "paint collectible", slog.String("token_id", c.TokenID))
	}

	key := ObjectKey(c)
	url, err := s.store.Put(ctx, key, img, http.DetectContentType(img))
	if err != nil {
		return "", err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "collectible artwork published",
		slog.String("token_id", c.TokenID), slog.String("url", url))
	return url, nil
}

// ObjectKey names the artwork object of a collectible.
func ObjectKey(c models.Collectible) string {
	title := slug.Make(c.Metadata.MysteryTitle)
	if title == "" {
		title = "untitled"
	}
	return fmt.Sprintf("collectibles/%s/%s/rank-%d-%s.png",
		slug.Make(c.MysteryID), title, c.Metadata.Rank, uuid.NewString())
}
