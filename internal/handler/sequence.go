package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rivertonapps/famcoin/internal/model"
	"github.com/rivertonapps/famcoin/internal/progress"
	"github.com/rivertonapps/famcoin/internal/realtime"
	"github.com/rivertonapps/famcoin/internal/sequence"
	"github.com/rivertonapps/famcoin/internal/store"
)

type SequenceHandler struct {
	engine    *sequence.Service
	sequences *store.SequenceStore
	hub       *realtime.Hub
	logger    *slog.Logger
}

func NewSequenceHandler(engine *sequence.Service, sequences *store.SequenceStore, hub *realtime.Hub, logger *slog.Logger) *SequenceHandler {
	return &SequenceHandler{engine: engine, sequences: sequences, hub: hub, logger: logger}
}

// ListByChild returns a child's sequences, newest first.
func (h *SequenceHandler) ListByChild(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	sequences, err := h.sequences.ListByChild(childID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sequences")
		return
	}
	if sequences == nil {
		sequences = []model.Sequence{}
	}
	writeJSON(w, http.StatusOK, sequences)
}

// Get returns one sequence with its full group/instance tree.
func (h *SequenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	tree, err := h.sequences.GetTree(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get sequence")
		return
	}
	if tree == nil {
		writeError(w, http.StatusNotFound, "sequence not found")
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// Complete marks a sequence completed, releasing the child for a new one.
func (h *SequenceHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, model.SequenceCompleted, "completed")
}

// Cancel marks a sequence cancelled.
func (h *SequenceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, model.SequenceCancelled, "cancelled")
}

func (h *SequenceHandler) transition(w http.ResponseWriter, r *http.Request, status model.SequenceStatus, action string) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.sequences.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get sequence")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "sequence not found")
		return
	}
	if existing.Status != model.SequenceActive {
		writeError(w, http.StatusConflict, "sequence is not active")
		return
	}

	seq, err := h.sequences.UpdateStatus(id, status)
	if err != nil {
		h.logger.Error("update sequence status", "sequence_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update sequence")
		return
	}

	h.hub.Broadcast(realtime.NewEvent("sequence", action, id, nil))
	writeJSON(w, http.StatusOK, seq)
}

// DaySchedule returns a child's due completions for one day (default today),
// with the derived progress overview.
func (h *SequenceHandler) DaySchedule(w http.ResponseWriter, r *http.Request) {
	childID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
	}

	due, err := h.sequences.ListDueForChild(childID, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load schedule")
		return
	}

	writeJSON(w, http.StatusOK, progress.BuildDayOverview(day, due, time.Now().UTC()))
}
