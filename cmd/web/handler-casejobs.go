package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/avalanchemystery/internal/casegen"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/logging"
	"github.com/myrjola/avalanchemystery/internal/models"
)

// caseJobConsumerTimeout bounds how long a job waits for someone to read its stream.
const caseJobConsumerTimeout = 30 * time.Second

const (
	caseJobGenerating = "generating"
	caseJobAccepted   = "accepted"
	caseJobFailed     = "failed"
)

type caseJobEvent struct {
	Status string              `json:"status"`
	Case   *models.MysteryCase `json:"case,omitempty"`
	Error  string              `json:"error,omitempty"`
}

type caseJobResponse struct {
	JobID     string `json:"jobId"`
	StreamURL string `json:"streamUrl"`
}

// startCaseJob generates a case in the background. Progress is streamed from the returned stream URL.
func (app *application) startCaseJob(w http.ResponseWriter, r *http.Request) {
	var req generateCaseRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	if _, ok := casegen.ThemeByName(req.Theme); req.Theme != "" && !ok {
		app.clientError(w, r, http.StatusBadRequest, "unknown theme")
		return
	}
	if req.Difficulty != "" && !req.Difficulty.Valid() {
		app.clientError(w, r, http.StatusBadRequest, "invalid difficulty")
		return
	}

	id := uuid.NewString()
	events := make(chan caseJobEvent)
	app.caseJobs.Publish(id, events)
	ctx := logging.WithAttrs(context.WithoutCancel(r.Context()), slog.String("job_id", id))
	go app.runCaseJob(ctx, id, req, events)

	app.writeJSON(w, r, http.StatusAccepted, caseJobResponse{JobID: id, StreamURL: "/api/cases/jobs/" + id})
}

func (app *application) runCaseJob(ctx context.Context, id string, req generateCaseRequest, events chan caseJobEvent) {
	defer func() {
		close(events)
		app.caseJobs.Unpublish(id)
	}()
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	send := func(e caseJobEvent) bool {
		select {
		case events <- e:
			return true
		case <-time.After(caseJobConsumerTimeout):
			app.logger.LogAttrs(ctx, slog.LevelWarn, "case job has no consumer", slog.String("status", e.Status))
			return false
		}
	}

	if !send(caseJobEvent{Status: caseJobGenerating, Case: nil, Error: ""}) {
		return
	}
	var (
		c   models.MysteryCase
		err error
	)
	if req.Theme == "" {
		c, err = app.cases.SynthesizeRandom(ctx, req.Difficulty)
	} else {
		c, err = app.cases.Synthesize(ctx, req.Theme, req.Difficulty)
	}
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "case job failed", errors.SlogError(err))
		send(caseJobEvent{Status: caseJobFailed, Case: nil, Error: jobErrorMessage(err)})
		return
	}
	send(caseJobEvent{Status: caseJobAccepted, Case: &c, Error: ""})
}

func jobErrorMessage(err error) string {
	switch {
	case errors.Is(err, casegen.ErrIncoherent):
		return "the generated case was incoherent, try again"
	case errors.Is(err, context.DeadlineExceeded):
		return "case generation timed out"
	default:
		return "text generation is unavailable, try again later"
	}
}

// streamCaseJob streams the events of a running job as server-sent events. A job that is unknown or already
// finished yields 404.
func (app *application) streamCaseJob(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		app.serverError(w, r, errors.New("response writer does not support flushing"))
		return
	}
	events, ok := <-app.caseJobs.Subscribe(r.PathValue("jobID"))
	if !ok {
		app.clientError(w, r, http.StatusNotFound, "unknown or finished job")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case e, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(e)
			if err != nil {
				app.logger.LogAttrs(r.Context(), slog.LevelError, "encode case job event", errors.SlogError(err))
				return
			}
			if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Status, payload); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
