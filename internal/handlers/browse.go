// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"preplab/internal/service"
)

// defaultSampleSize is used when the n query parameter is absent.
const defaultSampleSize = 10

// Browse groups the hierarchical query and navigation endpoints.
type Browse struct {
	queries *service.QueryService
	nav     *service.Navigator
}

// NewBrowse creates the browse handler group.
func NewBrowse(queries *service.QueryService, nav *service.Navigator) *Browse {
	return &Browse{queries: queries, nav: nav}
}

// withDescendants reports whether the request asks for the whole
// descendant closure instead of the label alone.
func withDescendants(r *http.Request) bool {
	return r.URL.Query().Has("descendants")
}

// Count handles GET /api/labels/{id}/count[?descendants].
func (h *Browse) Count(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var n int
	var err error
	if withDescendants(r) {
		n, err = h.queries.CountWithDescendants(r.Context(), id)
	} else {
		n, err = h.queries.CountDirect(r.Context(), id)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// Items handles GET /api/labels/{id}/items[?descendants][&fallback][&ids].
// The ids flag swaps the summaries for bare item identifiers.
func (h *Browse) Items(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var err error
	var items any
	switch {
	case r.URL.Query().Has("ids"):
		items, err = h.queries.ItemIDs(r.Context(), id, withDescendants(r))
	case r.URL.Query().Has("fallback"):
		items, err = h.queries.ListWithFallback(r.Context(), id)
	case withDescendants(r):
		items, err = h.queries.ListWithDescendants(r.Context(), id)
	default:
		items, err = h.queries.ListDirect(r.Context(), id)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Sample handles GET /api/labels/{id}/sample?n=&descendants.
func (h *Browse) Sample(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	n := defaultSampleSize
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_argument", Message: "n must be an integer"})
			return
		}
		n = parsed
	}
	items, err := h.queries.Sample(r.Context(), id, n, withDescendants(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Node handles GET /api/labels/{id}/node.
func (h *Browse) Node(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	node, err := h.nav.Node(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// Resolve handles GET /api/taxonomy/{category}/{label}, turning the
// slug pair a node link carries back into its navigation node.
func (h *Browse) Resolve(w http.ResponseWriter, r *http.Request) {
	node, err := h.nav.Resolve(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "label"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}
