package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkov/authd/internal/model"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to response status categories. Unknown
// errors collapse to a generic internal message; the caller is expected to
// have logged the details.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrDuplicateEmail):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: model.ErrDuplicateEmail.Error()})
	case errors.Is(err, model.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: model.ErrInvalidCredentials.Error()})
	case errors.Is(err, model.ErrInvalidRefreshToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: model.ErrInvalidRefreshToken.Error()})
	case errors.Is(err, model.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: model.ErrUnauthorized.Error()})
	case errors.Is(err, model.ErrNotFoundOrInactive):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: model.ErrNotFoundOrInactive.Error()})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: model.ErrNotFound.Error()})
	case errors.Is(err, model.ErrTokenConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Message: model.ErrTokenConflict.Error()})
	case errors.Is(err, model.ErrStoreUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: model.ErrStoreUnavailable.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}
