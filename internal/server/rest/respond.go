package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/yeslist/internal/common"
)

const maxBodyBytes = 1 << 20

const internalErrorMessage = "internal server error"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single JSON value from the request body into v.
// Any decoding problem is a validation error on the "body" field.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return common.NewValidationError("body", "request body is too large")
		case errors.Is(err, io.EOF):
			return common.NewValidationError("body", "request body is required")
		default:
			return common.NewValidationError("body", "request body must be valid JSON")
		}
	}
	if dec.More() {
		return common.NewValidationError("body", "request body must contain a single JSON object")
	}
	return nil
}

// writeError maps err to a status code. Anything not recognised goes to
// the safety net as an internal error.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "validation failed", Errors: verr.Fields})
	case errors.Is(err, common.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "invalid credentials"})
	case errors.Is(err, common.ErrorUnauthorized):
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "not found"})
	case errors.Is(err, common.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, messageResponse{Message: "email already in use"})
	default:
		a.internalError(w, r, err)
	}
}
