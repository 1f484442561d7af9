package main

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/myrjola/avalanchemystery/internal/cluegen"
	"github.com/myrjola/avalanchemystery/internal/glossary"
	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/shopspring/decimal"
)

// clueListing is a marketplace clue priced for the current demand. The content stays hidden until revealed.
type clueListing struct {
	models.MarketplaceClue
	Price           decimal.Decimal `json:"price"`
	DescriptionHTML string          `json:"descriptionHtml,omitempty"`
}

func (app *application) priceClue(c models.MarketplaceClue, demand, hoursRemaining float64) clueListing {
	listing := clueListing{
		MarketplaceClue: c,
		Price:           cluegen.CalculatePrice(c, demand, hoursRemaining),
		DescriptionHTML: "",
	}
	if c.IsRevealed {
		listing.DescriptionHTML = glossary.FormatHTML(c.Description, c.EducationalLinks)
	} else {
		listing.Description = ""
		listing.Concept = ""
		listing.EducationalLinks = nil
	}
	return listing
}

// clueMarketplace lists the inventory with prices. The optional demand query parameter scales them.
func (app *application) clueMarketplace(w http.ResponseWriter, r *http.Request) {
	demand := 1.0
	if v := r.URL.Query().Get("demand"); v != "" {
		var err error
		demand, err = strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(demand) || math.IsInf(demand, 0) || demand <= 0 {
			app.clientError(w, r, http.StatusBadRequest, "demand must be a positive number")
			return
		}
	}
	id := r.PathValue("id")
	m, err := app.mysteries.Get(id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	clues, err := app.mysteries.ClueMarketplace(id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	resp := make([]clueListing, 0, len(clues))
	for _, c := range clues {
		resp = append(resp, app.priceClue(c, demand, app.hoursRemaining(m.EndTime)))
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}

type earnClueRequest struct {
	MiniGamesCompleted int `json:"miniGamesCompleted"`
}

type earnClueResponse struct {
	Clue    models.MarketplaceClue `json:"clue"`
	Earning models.ClueEarning     `json:"earning"`
}

// earnClue hands the identified player a clue drawn by rarity for completed mini games.
func (app *application) earnClue(w http.ResponseWriter, r *http.Request) {
	player, ok := app.player(w, r)
	if !ok {
		return
	}
	var req earnClueRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	if req.MiniGamesCompleted < 0 {
		app.clientError(w, r, http.StatusBadRequest, "miniGamesCompleted must not be negative")
		return
	}
	clue, earning, err := app.mysteries.EarnClue(r.Context(), r.PathValue("id"), player, req.MiniGamesCompleted)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, earnClueResponse{Clue: clue, Earning: earning})
}

func (app *application) revealClue(w http.ResponseWriter, r *http.Request) {
	if _, ok := app.player(w, r); !ok {
		return
	}
	id := r.PathValue("id")
	clue, err := app.mysteries.RevealClue(id, r.PathValue("clueID"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	m, err := app.mysteries.Get(id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, app.priceClue(clue, 1, app.hoursRemaining(m.EndTime)))
}

func (app *application) hoursRemaining(end time.Time) float64 {
	return max(0, end.Sub(app.now()).Hours())
}

func (app *application) clueEarnings(w http.ResponseWriter, r *http.Request) {
	earnings, err := app.mysteries.Earnings(r.PathValue("id"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, earnings)
}
