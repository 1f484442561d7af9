package main

import (
	"net/http"
	"time"

	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/myrjola/avalanchemystery/internal/mystery"
	"github.com/shopspring/decimal"
)

// mysteryResponse hides the solution until the mystery has ended.
type mysteryResponse struct {
	models.ActiveMystery
	Solution      *models.Solution `json:"solution,omitempty"`
	TimeRemaining string           `json:"timeRemaining"`
}

func (app *application) viewMystery(m models.ActiveMystery) mysteryResponse {
	resp := mysteryResponse{ActiveMystery: m, Solution: nil, TimeRemaining: "0s"}
	if m.Status != models.StatusActive {
		solution := m.Solution
		resp.Solution = &solution
	}
	if remaining := m.EndTime.Sub(app.now()); remaining > 0 && m.Status == models.StatusActive {
		resp.TimeRemaining = remaining.Round(time.Second).String()
	}
	return resp
}

func (app *application) listMysteries(w http.ResponseWriter, r *http.Request) {
	active := app.mysteries.ActiveMysteries()
	resp := make([]mysteryResponse, 0, len(active))
	for _, m := range active {
		resp = append(resp, app.viewMystery(m))
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}

type createMysteryRequest struct {
	Difficulty    models.Difficulty `json:"difficulty"`
	DurationHours float64           `json:"durationHours"`
	PrizePool     decimal.Decimal   `json:"prizePool"`
}

func (app *application) createMystery(w http.ResponseWriter, r *http.Request) {
	var req createMysteryRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	duration := time.Duration(req.DurationHours * float64(time.Hour))
	m, err := app.mysteries.Create(r.Context(), req.Difficulty, duration, req.PrizePool)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, app.viewMystery(m))
}

func (app *application) getMystery(w http.ResponseWriter, r *http.Request) {
	m, err := app.mysteries.Get(r.PathValue("id"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, app.viewMystery(m))
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func (app *application) mysterySummary(w http.ResponseWriter, r *http.Request) {
	m, err := app.mysteries.Get(r.PathValue("id"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, summaryResponse{Summary: mystery.EducationalSummary(m.MysteryCase)})
}

type submitRequest struct {
	SuspectChoice string   `json:"suspectChoice"`
	Explanation   string   `json:"explanation"`
	CluesUsed     []string `json:"cluesUsed"`
}

func (app *application) submitAccusation(w http.ResponseWriter, r *http.Request) {
	player, ok := app.player(w, r)
	if !ok {
		return
	}
	var req submitRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	sub, err := app.mysteries.Submit(r.Context(), r.PathValue("id"), player, req.SuspectChoice, req.Explanation,
		req.CluesUsed)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, sub)
}

// listSubmissions lists the identified player's own submissions.
func (app *application) listSubmissions(w http.ResponseWriter, r *http.Request) {
	player, ok := app.player(w, r)
	if !ok {
		return
	}
	subs, err := app.mysteries.Submissions(r.PathValue("id"), player)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, subs)
}

func (app *application) settleMystery(w http.ResponseWriter, r *http.Request) {
	settlement, err := app.mysteries.Settle(r.Context(), r.PathValue("id"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, settlement)
}

func (app *application) getSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, err := app.mysteries.Settlement(r.PathValue("id"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, settlement)
}
