package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"shopledger/internal/auth"
	"shopledger/internal/core"
	applog "shopledger/internal/log"
	"shopledger/internal/services"
	"shopledger/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps application errors onto HTTP statuses. Anything that is
// not a recognized domain error becomes an opaque 500 so storage details
// never leak to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "record not found"})
	case isValidationError(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", applog.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrEmptyName,
		core.ErrNegativeQuantity,
		core.ErrZeroQuantity,
		core.ErrNegativeAmount,
		core.ErrZeroAmount,
		core.ErrMissingReference,
		core.ErrZeroDate,
		core.ErrInvalidAmount,
		services.ErrUnknownReference,
		errBadRequestBody,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var errBadRequestBody = errors.New("malformed request body")

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errBadRequestBody
	}
	return nil
}

// pathID extracts the {id} path segment as a positive integer.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadRequestBody
	}
	return id, nil
}
