package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rivertonapps/famcoin/internal/model"
	"github.com/rivertonapps/famcoin/internal/realtime"
	"github.com/rivertonapps/famcoin/internal/store"
)

type TemplateHandler struct {
	templates *store.TemplateStore
	hub       *realtime.Hub
	logger    *slog.Logger
}

func NewTemplateHandler(templates *store.TemplateStore, hub *realtime.Hub, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{templates: templates, hub: hub, logger: logger}
}

type templateRequest struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	PhotoProofRequired bool   `json:"photo_proof_required"`
	EffortScore        int    `json:"effort_score"`
	Active             *bool  `json:"active"`
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.EffortScore < 1 {
		req.EffortScore = 1
	}

	template, err := h.templates.Create(req.Name, req.Description, req.PhotoProofRequired, req.EffortScore)
	if err != nil {
		h.logger.Error("create template", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create template")
		return
	}

	h.hub.Broadcast(realtime.NewEvent("template", "created", template.ID, nil))
	writeJSON(w, http.StatusCreated, template)
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list templates")
		return
	}
	if templates == nil {
		templates = []model.TaskTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.templates.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get template")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.EffortScore < 1 {
		req.EffortScore = existing.EffortScore
	}
	active := existing.Active
	if req.Active != nil {
		active = *req.Active
	}

	template, err := h.templates.Update(id, req.Name, req.Description, req.PhotoProofRequired, req.EffortScore, active)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update template")
		return
	}

	h.hub.Broadcast(realtime.NewEvent("template", "updated", id, nil))
	writeJSON(w, http.StatusOK, template)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.templates.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get template")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	if err := h.templates.Delete(id); err != nil {
		// Templates referenced by task instances are protected by the FK.
		writeError(w, http.StatusConflict, "template is in use by a sequence")
		return
	}

	h.hub.Broadcast(realtime.NewEvent("template", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
