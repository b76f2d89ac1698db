package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rivertonapps/famcoin/internal/sequence"
)

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses with
// the error's own user-facing message.
func writeEngineError(w http.ResponseWriter, err error) {
	var (
		validationErr  *sequence.ValidationError
		conflictErr    *sequence.ConflictError
		notFoundErr    *sequence.NotFoundError
		persistenceErr *sequence.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":                conflictErr.Error(),
			"existing_sequence_id": conflictErr.SequenceID,
		})
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &persistenceErr):
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save sequence",
			"step":  persistenceErr.Step,
		})
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
