package api

import (
	// Go Internal Packages
	"encoding/json"
	"net/http"

	// Local Packages
	errors "minilend-disburser/errors"

	// External Packages
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError maps error kinds onto HTTP status codes. Unclassified
// errors (store connectivity, driver failures) are logged server-side and
// surfaced as a generic 500.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch errors.KindOf(err) {
	case errors.Invalid:
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: errors.Message(err)})
	case errors.NotFound:
		respondJSON(w, http.StatusNotFound, errorResponse{Error: errors.Message(err)})
	case errors.Conflict:
		respondJSON(w, http.StatusConflict, errorResponse{Error: errors.Message(err)})
	default:
		logger.Error("request failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
