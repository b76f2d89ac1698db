package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rivertonapps/famcoin/internal/period"
	"github.com/rivertonapps/famcoin/internal/realtime"
	"github.com/rivertonapps/famcoin/internal/sequence"
	"github.com/rivertonapps/famcoin/internal/store"
	"github.com/rivertonapps/famcoin/internal/wizard"
)

type WizardHandler struct {
	engine *sequence.Service
	drafts *store.DraftStore
	hub    *realtime.Hub
	logger *slog.Logger
}

func NewWizardHandler(engine *sequence.Service, drafts *store.DraftStore, hub *realtime.Hub, logger *slog.Logger) *WizardHandler {
	return &WizardHandler{engine: engine, drafts: drafts, hub: hub, logger: logger}
}

type wizardState struct {
	ID       string          `json:"id"`
	Step     wizard.Step     `json:"step"`
	StepName string          `json:"step_name"`
	Draft    *sequence.Draft `json:"draft"`
}

func stateOf(c *wizard.Controller) wizardState {
	return wizardState{
		ID:       c.ID(),
		Step:     c.Step(),
		StepName: c.Step().String(),
		Draft:    c.Draft(),
	}
}

// load resolves the session from the path, writing the error response itself
// when the session cannot be used.
func (h *WizardHandler) load(w http.ResponseWriter, r *http.Request) *wizard.Controller {
	id := r.PathValue("id")
	c, err := wizard.Load(id, h.engine, h.drafts, h.logger)
	if err != nil {
		h.logger.Error("load wizard session", "draft_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load wizard session")
		return nil
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "wizard session not found")
		return nil
	}
	return c
}

// Start opens a new wizard session.
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	c, err := wizard.New(h.engine, h.drafts, h.logger)
	if err != nil {
		h.logger.Error("start wizard session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start wizard session")
		return
	}
	writeJSON(w, http.StatusCreated, stateOf(c))
}

// Get returns the session state.
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	c := h.load(w, r)
	if c == nil {
		return
	}
	writeJSON(w, http.StatusOK, stateOf(c))
}

// SelectChild records the target child for the draft.
func (h *WizardHandler) SelectChild(w http.ResponseWriter, r *http.Request) {
	c := h.load(w, r)
	if c == nil {
		return
	}

	var req struct {
		ChildID int64 `json:"child_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ChildID <= 0 {
		writeError(w, http.StatusBadRequest, "child_id is required")
		return
	}

	if err := c.SelectChild(req.ChildID); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(c))
}

type settingsRequest struct {
	Period         string  `json:"period"`
	StartDate      string  `json:"start_date"`
	BudgetCurrency float64 `json:"budget_currency"`
	CurrencyCode   string  `json:"currency_code"`
}

// SetSettings records the period and budget settings.
func (h *WizardHandler) SetSettings(w http.ResponseWriter, r *http.Request) {
	c := h.load(w, r)
	if c == nil {
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	kind := period.Kind(req.Period)
	if !period.Valid(kind) {
		writeError(w, http.StatusBadRequest, "unknown period kind")
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date, want YYYY-MM-DD")
		return
	}
	if req.BudgetCurrency <= 0 {
		writeError(w, http.StatusBadRequest, "budget_currency must be positive")
		return
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = "USD"
	}

	if err := c.SetSettings(sequence.DraftSettings{
		Period:         kind,
		StartDate:      start,
		BudgetCurrency: req.BudgetCurrency,
		CurrencyCode:   req.CurrencyCode,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save draft")
		return
	}
	writeJSON(w, http.StatusOK, stateOf(c))
}

type groupsRequest struct {
	Groups []sequence.DraftGroup `json:"groups"`
}

// SetGroups replaces the draft's group list.
func (h *WizardHandler) SetGroups(w http.ResponseWriter, r *http.Request) {
	c := h.load(w, r)
	if c == nil {
		return
	}

	var req groupsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := c.SetGroups(req.Groups); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save draft")
		return
	}
	writeJSON(w, http.StatusOK, stateOf(c))
}

// AssignTasks replaces one group's task assignment.
func (h *WizardHandler) AssignTasks(w http.ResponseWriter, r *http.Request) {
	c := h.load(w, r)
	if c == nil {
		return
	}

	var req struct {
		TemplateIDs []int64 `json:"template_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := c.AssignTasks(r.PathValue("group_id"), req.TemplateIDs); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(c))
}

// Goto navigates the session; the response carries the step actually landed
// on, which is earlier than requested when a prior step is invalid.
func (h *WizardHandler) Goto(w http.ResponseWriter, r *http.Request) {
	c := h.load(w, r)
	if c == nil {
		return
	}

	var req struct {
		Step int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if _, err := c.Goto(wizard.Step(req.Step)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save draft")
		return
	}
	writeJSON(w, http.StatusOK, stateOf(c))
}

// Edit loads a persisted sequence into the session for editing.
func (h *WizardHandler) Edit(w http.ResponseWriter, r *http.Request) {
	c := h.load(w, r)
	if c == nil {
		return
	}

	var req struct {
		SequenceID int64 `json:"sequence_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := c.LoadForEditing(req.SequenceID); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(c))
}

// Submit materializes the draft.
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	c := h.load(w, r)
	if c == nil {
		return
	}

	editing := c.Draft().IsEditing
	sequenceID, err := c.Submit()
	if err != nil {
		writeEngineError(w, err)
		return
	}

	action := "created"
	if editing {
		action = "updated"
	}
	h.hub.Broadcast(realtime.NewEvent("sequence", action, sequenceID, nil))

	writeJSON(w, http.StatusCreated, map[string]any{"sequence_id": sequenceID})
}

// Discard deletes the session.
func (h *WizardHandler) Discard(w http.ResponseWriter, r *http.Request) {
	c := h.load(w, r)
	if c == nil {
		return
	}
	if err := c.Discard(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to discard draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
