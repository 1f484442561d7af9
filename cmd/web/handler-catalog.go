package main

import (
	"net/http"
	"strconv"

	"github.com/myrjola/avalanchemystery/internal/casegen"
	"github.com/myrjola/avalanchemystery/internal/models"
)

type themeResponse struct {
	Name  string   `json:"name"`
	Brief string   `json:"brief"`
	Goals []string `json:"goals"`
}

type glossaryEntryResponse struct {
	Key string `json:"key"`
	models.EducationalLink
}

func (app *application) themes(w http.ResponseWriter, r *http.Request) {
	all := casegen.Themes()
	resp := make([]themeResponse, 0, len(all))
	for _, t := range all {
		resp = append(resp, themeResponse{Name: t.Name, Brief: t.Brief, Goals: t.Goals})
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}

func (app *application) glossaryEntries(w http.ResponseWriter, r *http.Request) {
	entries := app.glossary.Entries()
	resp := make([]glossaryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, glossaryEntryResponse{Key: e.Key, EducationalLink: e.Link})
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}

// generationAudit lists the most recent exchanges with the text generation backend.
func (app *application) generationAudit(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		var err error
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			app.clientError(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}
	audits, err := app.audits.List(r.Context(), limit)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, audits)
}

type generateCaseRequest struct {
	Theme      string            `json:"theme"`
	Difficulty models.Difficulty `json:"difficulty"`
}

// generateCase writes a standalone case without opening it as a mystery. An empty theme picks one at random.
func (app *application) generateCase(w http.ResponseWriter, r *http.Request) {
	var req generateCaseRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	var (
		c   models.MysteryCase
		err error
	)
	if req.Theme == "" {
		c, err = app.cases.SynthesizeRandom(r.Context(), req.Difficulty)
	} else {
		c, err = app.cases.Synthesize(r.Context(), req.Theme, req.Difficulty)
	}
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, c)
}
