package main

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/myrjola/avalanchemystery/internal/mystery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMystery(t *testing.T, server *testServer) mysteryResponse {
	t.Helper()
	var m mysteryResponse
	status := server.PostJSON(t, "/api/mysteries", map[string]any{
		"difficulty":    "beginner",
		"durationHours": 24,
		"prizePool":     "100",
	}, &m)
	require.Equal(t, http.StatusCreated, status)
	return m
}

func TestMysteryLifecycle(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv, withTextBackend(newScriptedBackend()))
	server.Identify(t, "0xsolver")

	m := createMystery(t, &server)
	assert.Equal(t, models.StatusActive, m.Status)
	assert.Nil(t, m.Solution, "solution must stay hidden while active")
	assert.Equal(t, "The Drained Pool", m.Title)
	assert.Len(t, m.Suspects, 6)
	assert.Equal(t, "100", m.TotalPrizePool.String())

	var active []mysteryResponse
	require.Equal(t, http.StatusOK, server.GetJSON(t, "/api/mysteries", &active))
	require.Len(t, active, 1)
	assert.Equal(t, m.ID, active[0].ID)

	var listings []clueListing
	require.Equal(t, http.StatusOK, server.GetJSON(t, "/api/mysteries/"+m.ID+"/clues?demand=2", &listings))
	require.Len(t, listings, 6)
	for _, l := range listings {
		assert.Empty(t, l.Description, "unrevealed clues are hidden")
		assert.True(t, l.Price.IsPositive())
	}

	var earned earnClueResponse
	require.Equal(t, http.StatusOK,
		server.PostJSON(t, "/api/mysteries/"+m.ID+"/clues/earn", map[string]int{"miniGamesCompleted": 3}, &earned))
	assert.Equal(t, "0xsolver", earned.Earning.PlayerAddress)
	assert.Equal(t, 3, earned.Earning.MiniGamesCompleted)

	var revealed clueListing
	require.Equal(t, http.StatusOK,
		server.PostJSON(t, "/api/mysteries/"+m.ID+"/clues/"+earned.Clue.ID+"/reveal", map[string]any{}, &revealed))
	assert.True(t, revealed.IsRevealed)
	assert.Contains(t, revealed.Description, "multisig")
	assert.NotEmpty(t, revealed.DescriptionHTML)

	var sub models.PlayerSubmission
	require.Equal(t, http.StatusCreated, server.PostJSON(t, "/api/mysteries/"+m.ID+"/submissions", map[string]any{
		"suspectChoice": strings.ToUpper(culprit),
		"explanation":   "The multisig key",
		"cluesUsed":     []string{earned.Clue.ID},
	}, &sub))
	assert.Equal(t, "0xsolver", sub.PlayerAddress)
	assert.Nil(t, sub.IsCorrect)

	var mine []models.PlayerSubmission
	require.Equal(t, http.StatusOK, server.GetJSON(t, "/api/mysteries/"+m.ID+"/submissions", &mine))
	require.Len(t, mine, 1)

	var settlement models.Settlement
	require.Equal(t, http.StatusOK, server.PostJSON(t, "/api/mysteries/"+m.ID+"/settle", map[string]any{}, &settlement))
	require.Len(t, settlement.Rewards, 1)
	assert.Equal(t, sub.ID, settlement.Rewards[0].SubmissionID)
	require.Len(t, settlement.Collectibles, 1)
	assert.Equal(t, models.TierLegendary, settlement.Collectibles[0].Tier)
	assert.Equal(t, mystery.PlaceholderImage, settlement.Collectibles[0].ImageURL)

	var ended mysteryResponse
	require.Equal(t, http.StatusOK, server.GetJSON(t, "/api/mysteries/"+m.ID, &ended))
	assert.Equal(t, models.StatusRewardsDistributed, ended.Status)
	require.NotNil(t, ended.Solution)
	assert.Equal(t, culprit, ended.Solution.Culprit)

	var stored models.Settlement
	require.Equal(t, http.StatusOK, server.GetJSON(t, "/api/mysteries/"+m.ID+"/settlement", &stored))
	assert.Equal(t, settlement.Rewards[0].RewardAmount.String(), stored.Rewards[0].RewardAmount.String())

	var errResp errorResponse
	assert.Equal(t, http.StatusConflict,
		server.PostJSON(t, "/api/mysteries/"+m.ID+"/settle", map[string]any{}, &errResp))
	assert.Equal(t, http.StatusConflict, server.PostJSON(t, "/api/mysteries/"+m.ID+"/submissions", map[string]any{
		"suspectChoice": culprit,
	}, &errResp))

	require.Equal(t, http.StatusOK, server.GetJSON(t, "/api/mysteries", &active))
	assert.Empty(t, active)

	var summary summaryResponse
	require.Equal(t, http.StatusOK, server.GetJSON(t, "/api/mysteries/"+m.ID+"/summary", &summary))
	assert.Contains(t, summary.Summary, "6 ecosystem roles")
}

func TestCreateMysteryRejectsBadInput(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv, withTextBackend(newScriptedBackend()))

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "unknown difficulty", body: map[string]any{"difficulty": "expert", "durationHours": 1, "prizePool": "1"}},
		{name: "zero duration", body: map[string]any{"difficulty": "beginner", "durationHours": 0, "prizePool": "1"}},
		{name: "negative pool", body: map[string]any{"difficulty": "beginner", "durationHours": 1, "prizePool": "-1"}},
		{name: "unknown field", body: map[string]any{"difficulty": "beginner", "hours": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errResp errorResponse
			assert.Equal(t, http.StatusBadRequest, server.PostJSON(t, "/api/mysteries", tt.body, &errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestUnknownMystery(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv, withTextBackend(newScriptedBackend()))

	for _, path := range []string{"/api/mysteries/missing", "/api/mysteries/missing/clues", "/api/mysteries/missing/summary"} {
		var errResp errorResponse
		assert.Equal(t, http.StatusNotFound, server.GetJSON(t, path, &errResp), path)
	}
}

func TestSubmitRequiresPlayer(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv, withTextBackend(newScriptedBackend()))
	m := createMystery(t, &server)

	var errResp errorResponse
	assert.Equal(t, http.StatusUnauthorized, server.PostJSON(t, "/api/mysteries/"+m.ID+"/submissions",
		map[string]any{"suspectChoice": culprit}, &errResp))
	assert.Equal(t, http.StatusUnauthorized, server.GetJSON(t, "/api/session", &errResp))
}

func TestUnsafeRequestsNeedCSRFToken(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv, withTextBackend(newScriptedBackend()))

	resp, err := server.client.Post(server.URL()+"/api/session", "application/json",
		strings.NewReader(`{"playerAddress":"0xabc"}`))
	require.NoError(t, err)
	var errResp errorResponse
	assert.Equal(t, http.StatusBadRequest, decodeBody(t, resp, &errResp))
	assert.Equal(t, "invalid CSRF token", errResp.Error)
}

func TestTextGenerationNotConfigured(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv)

	var errResp errorResponse
	assert.Equal(t, http.StatusServiceUnavailable, server.PostJSON(t, "/api/mysteries", map[string]any{
		"difficulty": "beginner", "durationHours": 1, "prizePool": "1",
	}, &errResp))

	var active []mysteryResponse
	require.Equal(t, http.StatusOK, server.GetJSON(t, "/api/mysteries", &active))
	assert.Empty(t, active)
}

type fixedIllustrator struct{}

func (fixedIllustrator) Illustrate(_ context.Context, c models.Collectible) (string, error) {
	return "https://art.example.com/" + c.TokenID + ".png", nil
}

func TestSettlementUsesIllustrator(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv,
		withTextBackend(newScriptedBackend()), withIllustrator(fixedIllustrator{}))
	server.Identify(t, "0xartist")
	m := createMystery(t, &server)

	var sub models.PlayerSubmission
	require.Equal(t, http.StatusCreated, server.PostJSON(t, "/api/mysteries/"+m.ID+"/submissions",
		map[string]any{"suspectChoice": culprit}, &sub))

	var settlement models.Settlement
	require.Equal(t, http.StatusOK, server.PostJSON(t, "/api/mysteries/"+m.ID+"/settle", map[string]any{}, &settlement))
	require.Len(t, settlement.Collectibles, 1)
	c := settlement.Collectibles[0]
	assert.Equal(t, "https://art.example.com/"+c.TokenID+".png", c.ImageURL)
	assert.Equal(t, "0xartist", c.PlayerAddress)
	assert.Equal(t, c.TokenID, settlement.Rewards[0].CollectibleID)
}
