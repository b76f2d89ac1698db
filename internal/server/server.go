package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rivertonapps/famcoin/internal/handler"
	"github.com/rivertonapps/famcoin/internal/logging"
	"github.com/rivertonapps/famcoin/internal/middleware"
	"github.com/rivertonapps/famcoin/internal/realtime"
	"github.com/rivertonapps/famcoin/internal/sequence"
	"github.com/rivertonapps/famcoin/internal/store"
)

type Server struct {
	db          *sql.DB
	hub         *realtime.Hub
	childH      *handler.ChildHandler
	templateH   *handler.TemplateHandler
	sequenceH   *handler.SequenceHandler
	wizardH     *handler.WizardHandler
	settingsH   *handler.SettingsHandler
	draftStore  *store.DraftStore
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := realtime.NewHub(logging.Component(logger, "realtime"))

	childStore := store.NewChildStore(db)
	templateStore := store.NewTemplateStore(db)
	sequenceStore := store.NewSequenceStore(db)
	settingsStore := store.NewSettingsStore(db)
	draftStore := store.NewDraftStore(db)

	engine := sequence.NewService(sequenceStore, templateStore, childStore, settingsStore, logging.Component(logger, "sequence"))

	return &Server{
		db:          db,
		hub:         hub,
		childH:      handler.NewChildHandler(childStore, hub, logging.Component(logger, "child")),
		templateH:   handler.NewTemplateHandler(templateStore, hub, logging.Component(logger, "template")),
		sequenceH:   handler.NewSequenceHandler(engine, sequenceStore, hub, logging.Component(logger, "sequence_api")),
		wizardH:     handler.NewWizardHandler(engine, draftStore, hub, logging.Component(logger, "wizard")),
		settingsH:   handler.NewSettingsHandler(settingsStore),
		draftStore:  draftStore,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// DraftStore returns the draft store for cleanup tasks.
func (s *Server) DraftStore() *store.DraftStore {
	return s.draftStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Children
	mux.HandleFunc("POST /api/children", s.childH.Create)
	mux.HandleFunc("GET /api/children", s.childH.List)
	mux.HandleFunc("PUT /api/children/{id}", s.childH.Update)
	mux.HandleFunc("DELETE /api/children/{id}", s.childH.Delete)
	mux.HandleFunc("GET /api/children/{id}/sequences", s.sequenceH.ListByChild)
	mux.HandleFunc("GET /api/children/{id}/schedule", s.sequenceH.DaySchedule)

	// Task template catalog
	mux.HandleFunc("POST /api/templates", s.templateH.Create)
	mux.HandleFunc("GET /api/templates", s.templateH.List)
	mux.HandleFunc("PUT /api/templates/{id}", s.templateH.Update)
	mux.HandleFunc("DELETE /api/templates/{id}", s.templateH.Delete)

	// Sequences
	mux.HandleFunc("GET /api/sequences/{id}", s.sequenceH.Get)
	mux.HandleFunc("POST /api/sequences/{id}/complete", s.sequenceH.Complete)
	mux.HandleFunc("POST /api/sequences/{id}/cancel", s.sequenceH.Cancel)

	// Sequence wizard sessions
	mux.HandleFunc("POST /api/wizard", s.wizardH.Start)
	mux.HandleFunc("GET /api/wizard/{id}", s.wizardH.Get)
	mux.HandleFunc("PUT /api/wizard/{id}/child", s.wizardH.SelectChild)
	mux.HandleFunc("PUT /api/wizard/{id}/settings", s.wizardH.SetSettings)
	mux.HandleFunc("PUT /api/wizard/{id}/groups", s.wizardH.SetGroups)
	mux.HandleFunc("PUT /api/wizard/{id}/groups/{group_id}/tasks", s.wizardH.AssignTasks)
	mux.HandleFunc("POST /api/wizard/{id}/step", s.wizardH.Goto)
	mux.HandleFunc("POST /api/wizard/{id}/edit", s.wizardH.Edit)
	mux.HandleFunc("POST /api/wizard/{id}/submit", s.rateLimited(s.wizardH.Submit))
	mux.HandleFunc("DELETE /api/wizard/{id}", s.wizardH.Discard)

	// Settings
	mux.HandleFunc("GET /api/settings/engine", s.settingsH.Get)
	mux.HandleFunc("PUT /api/settings/engine", s.settingsH.Update)

	// Real-time sync
	mux.HandleFunc("GET /ws", realtime.Handler(s.hub))

	return middleware.RequestLogger(logging.Component(s.logger, "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
