package handlers

import (
	"encoding/json"
	"errors"
	"fleet-route-service/internal/domain"
	"io"
	"log"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps err onto a status by its failure kind. Unknown errors
// are logged and reported as a generic 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeJSON(w, r, status, map[string]string{"error": "internal server error", "kind": "internal"})
		return
	}
	writeJSON(w, r, status, map[string]string{"error": err.Error(), "kind": domain.Kind(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrMissingSelection),
		errors.Is(err, domain.ErrNoVehicleSelected),
		errors.Is(err, domain.ErrInsufficientPoints):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrVehicleNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoWarehouse),
		errors.Is(err, domain.ErrNoStopsAssigned),
		errors.Is(err, domain.ErrEmptyRoute):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrApplication),
		errors.Is(err, domain.ErrRemote),
		errors.Is(err, domain.ErrRenderFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// allowMethods writes 405 and returns false unless r uses one of methods.
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON reads exactly one JSON object into dst. On failure it writes a
// 400 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, strict bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	if strict {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}
