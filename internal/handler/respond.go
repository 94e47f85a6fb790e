package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"oha-portal/pkg/apperr"
	"oha-portal/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError maps an error onto the portal's error taxonomy. Errors
// without a taxonomy are treated as internal: logged with the cause,
// surfaced with a generic message.
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	var ae *apperr.AppError
	if !errors.As(err, &ae) {
		ae = apperr.NewInternalError("Internal server error", err)
	}

	if ae.StatusCode >= http.StatusInternalServerError {
		log.WithError(ae).Error("Request failed")
	} else {
		log.WithError(ae).Debug("Request rejected")
	}

	body := map[string]interface{}{
		"type":    ae.Type,
		"message": ae.Message,
	}
	if len(ae.Details) > 0 {
		body["details"] = ae.Details
	}
	respondJSON(w, ae.StatusCode, map[string]interface{}{"error": body})
}

// decodeJSON decodes a request body, mapping malformed JSON to a
// validation error.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.NewValidationError("Invalid request body", nil)
	}
	return nil
}
