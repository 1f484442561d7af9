package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/avalanchemystery/internal/casegen"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/mystery"
	"github.com/myrjola/avalanchemystery/internal/textgen"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	app.writeError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri), slog.String("message", message))
	app.writeError(w, r, status, message)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

// domainError maps errors from the mystery packages to a status code. Anything unrecognised is a server error.
func (app *application) domainError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, mystery.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, mystery.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, mystery.ErrExpired):
		status = http.StatusGone
	case errors.Is(err, mystery.ErrNoClues):
		status = http.StatusConflict
	case errors.Is(err, mystery.ErrInvalidInput),
		errors.Is(err, casegen.ErrInvalidDifficulty),
		errors.Is(err, casegen.ErrUnknownTheme):
		status = http.StatusBadRequest
	case errors.Is(err, textgen.ErrConfiguration), errors.Is(err, textgen.ErrTransientBackend):
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "text generation unavailable", errors.SlogError(err))
		app.writeError(w, r, http.StatusServiceUnavailable, "text generation is unavailable, try again later")
		return
	case errors.Is(err, casegen.ErrIncoherent):
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "generated case rejected", errors.SlogError(err))
		app.writeError(w, r, http.StatusBadGateway, "the generated case was incoherent, try again")
		return
	default:
		app.serverError(w, r, err)
		return
	}
	app.clientError(w, r, status, err.Error())
}

func (app *application) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, errorResponse{Error: message})
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", errors.SlogError(err))
	}
}

// readJSON decodes a single JSON object from the request body into dst, rejecting unknown fields.
func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return false
	}
	return true
}
