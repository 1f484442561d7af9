package repositories_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/myrjola/avalanchemystery/internal/casegen"
	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/myrjola/avalanchemystery/internal/repositories"
	"github.com/myrjola/avalanchemystery/internal/sqlite"
	"github.com/myrjola/avalanchemystery/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()
	db, err := sqlite.NewDatabase(context.Background(), ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func TestGenerationRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repositories.NewGenerationRepository(newTestDB(t), testhelpers.NewLogger(io.Discard))
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	attempts := []casegen.Attempt{
		{
			Theme:      "defi_heist",
			Difficulty: models.DifficultyBeginner,
			Number:     1,
			Prompt:     "write a case",
			Raw:        "not json",
			Accepted:   false,
			Reason:     "no json object in answer",
			CaseID:     "",
			At:         at,
		},
		{
			Theme:      "defi_heist",
			Difficulty: models.DifficultyBeginner,
			Number:     2,
			Prompt:     "repair the case",
			Raw:        `{"title": "x"}`,
			Accepted:   true,
			Reason:     "",
			CaseID:     "defi_heist_1_abc",
			At:         at.Add(time.Second),
		},
	}
	for _, a := range attempts {
		require.NoError(t, repo.RecordAttempt(ctx, a))
	}

	audits, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, audits, 2)

	latest := audits[0]
	assert.Equal(t, 2, latest.Attempt)
	assert.True(t, latest.Accepted)
	assert.Equal(t, "defi_heist_1_abc", latest.CaseID)
	assert.Equal(t, at.Add(time.Second), latest.Created)
	assert.Equal(t, models.DifficultyBeginner, latest.Difficulty)

	first := audits[1]
	assert.False(t, first.Accepted)
	assert.Equal(t, "no json object in answer", first.Reason)
	assert.Equal(t, "not json", first.Raw)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
