package main

import (
	"net/http"
	"strings"

	"github.com/myrjola/avalanchemystery/internal/contexthelpers"
	"github.com/myrjola/avalanchemystery/internal/errors"
)

const maxPlayerAddressLength = 128

type csrfResponse struct {
	Token string `json:"token"`
}

type playerResponse struct {
	PlayerAddress string `json:"playerAddress"`
}

func (app *application) csrfToken(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, csrfResponse{Token: contexthelpers.CSRFToken(r.Context())})
}

func (app *application) currentPlayer(w http.ResponseWriter, r *http.Request) {
	if !contexthelpers.IsIdentified(r.Context()) {
		app.clientError(w, r, http.StatusUnauthorized, "no player address in session")
		return
	}
	app.writeJSON(w, r, http.StatusOK, playerResponse{PlayerAddress: contexthelpers.PlayerAddress(r.Context())})
}

// identifyPlayer remembers the wallet address the player plays with. Ownership of the address is not verified.
func (app *application) identifyPlayer(w http.ResponseWriter, r *http.Request) {
	var req playerResponse
	if !app.readJSON(w, r, &req) {
		return
	}
	address := strings.TrimSpace(req.PlayerAddress)
	if address == "" || len(address) > maxPlayerAddressLength {
		app.clientError(w, r, http.StatusBadRequest, "playerAddress must be between 1 and 128 characters")
		return
	}
	if err := app.sessionManager.RenewToken(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "renew session token"))
		return
	}
	app.sessionManager.Put(r.Context(), playerAddressSessionKey, address)
	app.writeJSON(w, r, http.StatusOK, playerResponse{PlayerAddress: address})
}

func (app *application) forgetPlayer(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.Destroy(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "destroy session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// player returns the identified player or responds with 401.
func (app *application) player(w http.ResponseWriter, r *http.Request) (string, bool) {
	address := contexthelpers.PlayerAddress(r.Context())
	if address == "" {
		app.clientError(w, r, http.StatusUnauthorized, "identify with POST /api/session first")
		return "", false
	}
	return address, true
}
