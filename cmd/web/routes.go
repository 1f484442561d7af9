package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthy", app.healthy)
	mux.HandleFunc("/", app.notFound)

	session := alice.New(app.sessionManager.LoadAndSave, app.noSurf, commonContext, app.identify)
	quick := session.Append(func(next http.Handler) http.Handler { return timeoutHandler(next, defaultTimeout) })
	slow := session.Append(func(next http.Handler) http.Handler { return timeoutHandler(next, generationTimeout) })
	stream := alice.New(app.serverSentEventMiddleware, app.noSurf, commonContext, app.identify)

	mux.Handle("GET /api/csrf", quick.ThenFunc(app.csrfToken))
	mux.Handle("GET /api/session", quick.ThenFunc(app.currentPlayer))
	mux.Handle("POST /api/session", quick.ThenFunc(app.identifyPlayer))
	mux.Handle("DELETE /api/session", quick.ThenFunc(app.forgetPlayer))

	mux.Handle("GET /api/themes", quick.ThenFunc(app.themes))
	mux.Handle("GET /api/glossary", quick.ThenFunc(app.glossaryEntries))
	mux.Handle("GET /api/audit", quick.ThenFunc(app.generationAudit))

	mux.Handle("POST /api/cases", slow.ThenFunc(app.generateCase))
	mux.Handle("POST /api/cases/jobs", quick.ThenFunc(app.startCaseJob))
	mux.Handle("GET /api/cases/jobs/{jobID}", stream.ThenFunc(app.streamCaseJob))

	mux.Handle("GET /api/mysteries", quick.ThenFunc(app.listMysteries))
	mux.Handle("POST /api/mysteries", slow.ThenFunc(app.createMystery))
	mux.Handle("GET /api/mysteries/{id}", quick.ThenFunc(app.getMystery))
	mux.Handle("GET /api/mysteries/{id}/summary", quick.ThenFunc(app.mysterySummary))
	mux.Handle("GET /api/mysteries/{id}/submissions", quick.ThenFunc(app.listSubmissions))
	mux.Handle("POST /api/mysteries/{id}/submissions", quick.ThenFunc(app.submitAccusation))
	mux.Handle("POST /api/mysteries/{id}/settle", slow.ThenFunc(app.settleMystery))
	mux.Handle("GET /api/mysteries/{id}/settlement", quick.ThenFunc(app.getSettlement))

	mux.Handle("GET /api/mysteries/{id}/clues", quick.ThenFunc(app.clueMarketplace))
	mux.Handle("POST /api/mysteries/{id}/clues/earn", quick.ThenFunc(app.earnClue))
	mux.Handle("POST /api/mysteries/{id}/clues/{clueID}/reveal", quick.ThenFunc(app.revealClue))
	mux.Handle("GET /api/mysteries/{id}/earnings", quick.ThenFunc(app.clueEarnings))

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
