// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the catalog API.
// Handlers are grouped by concern (categories, labels, browse, content)
// and receive their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"preplab/internal/service"
)

// maxBodyBytes caps request bodies; catalog payloads are small.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error    string `json:"error"`
	Resource string `json:"resource,omitempty"`
	Message  string `json:"message,omitempty"`
}

// writeJSON serializes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("write response", "error", err)
		}
	}
}

// writeServiceError maps a service failure kind to an HTTP status.
// Untyped errors are infrastructure problems and become opaque 500s.
func writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		slog.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindDuplicate, service.KindHasChildren:
		status = http.StatusConflict
	case service.KindCircular, service.KindCategoryMismatch:
		status = http.StatusUnprocessableEntity
	case service.KindInvalid:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{
		Error:    svcErr.Kind.String(),
		Resource: svcErr.Resource,
		Message:  svcErr.Message,
	})
}

// decodeJSON reads a request body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json", Message: err.Error()})
		return false
	}
	return true
}

// pathUUID parses the named URL parameter as a UUID.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_id", Message: "malformed uuid in path"})
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional query parameter as a UUID. A missing
// parameter returns (nil, true).
func queryUUID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_id", Message: "malformed uuid in query"})
		return nil, false
	}
	return &id, true
}
