package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Goofygiraffe06/authform/internal/form"
	"github.com/Goofygiraffe06/authform/internal/logging"
	"github.com/Goofygiraffe06/authform/internal/models"
	"github.com/Goofygiraffe06/authform/internal/validation"
	"github.com/Goofygiraffe06/authform/internal/workerpool"
	"github.com/Goofygiraffe06/authform/store/ephemeral"
)

var errBadRequest = errors.New("invalid request")

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.ErrorLog("JSON encoding failed: %v", err)
	}
}

// decodeJSON reads a single JSON object into dst and runs its validate tags.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: body too large", errBadRequest)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := validation.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// respondError maps infrastructure errors to a status code.
func respondError(w http.ResponseWriter, err error) {
	var (
		code int
		msg  string
	)
	switch {
	case errors.Is(err, errBadRequest):
		code, msg = http.StatusBadRequest, "Invalid request"
	case errors.Is(err, ErrPageNotFound):
		code, msg = http.StatusNotFound, "Page view not found"
	case errors.Is(err, ErrUnsupportedAction):
		code, msg = http.StatusBadRequest, "Action not supported on this page"
	case errors.Is(err, form.ErrUnknownField):
		code, msg = http.StatusBadRequest, "Unknown field"
	case errors.Is(err, form.ErrUnknownProvider):
		code, msg = http.StatusBadRequest, "Unknown provider"
	case errors.Is(err, form.ErrSubmitInFlight):
		code, msg = http.StatusConflict, "Submission already in progress"
	case errors.Is(err, ephemeral.ErrStoreFull),
		errors.Is(err, workerpool.ErrQueueFull),
		errors.Is(err, workerpool.ErrPoolClosed):
		code, msg = http.StatusServiceUnavailable, "Server busy, try again later"
	default:
		code, msg = http.StatusInternalServerError, "Internal error"
	}

	if code >= http.StatusInternalServerError {
		logging.ErrorLog("Request failed: %v", err)
	} else {
		logging.DebugLog("Request rejected: %v", err)
	}
	respondJSON(w, code, models.ErrorResponse{Error: msg})
}

func pageResponse(pv *PageView) models.PageResponse {
	return models.PageResponse{
		ID:    pv.ID,
		Kind:  pv.Kind,
		State: pv.Ctrl.State(),
		View:  pv.Page.Snapshot(),
	}
}
