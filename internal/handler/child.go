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

type ChildHandler struct {
	children *store.ChildStore
	hub      *realtime.Hub
	logger   *slog.Logger
}

func NewChildHandler(children *store.ChildStore, hub *realtime.Hub, logger *slog.Logger) *ChildHandler {
	return &ChildHandler{children: children, hub: hub, logger: logger}
}

type childRequest struct {
	Name        string `json:"name"`
	AvatarEmoji string `json:"avatar_emoji"`
	SortOrder   int    `json:"sort_order"`
}

func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req childRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	child, err := h.children.Create(req.Name, req.AvatarEmoji)
	if err != nil {
		h.logger.Error("create child", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create child")
		return
	}

	h.hub.Broadcast(realtime.NewEvent("child", "created", child.ID, nil))
	writeJSON(w, http.StatusCreated, child)
}

func (h *ChildHandler) List(w http.ResponseWriter, r *http.Request) {
	children, err := h.children.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list children")
		return
	}
	if children == nil {
		children = []model.Child{}
	}
	writeJSON(w, http.StatusOK, children)
}

func (h *ChildHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.children.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get child")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "child not found")
		return
	}

	var req childRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	child, err := h.children.Update(id, req.Name, req.AvatarEmoji, req.SortOrder)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update child")
		return
	}

	h.hub.Broadcast(realtime.NewEvent("child", "updated", id, nil))
	writeJSON(w, http.StatusOK, child)
}

func (h *ChildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.children.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get child")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "child not found")
		return
	}

	if err := h.children.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete child")
		return
	}

	h.hub.Broadcast(realtime.NewEvent("child", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
