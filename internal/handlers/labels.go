// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"preplab/internal/service"
)

// Labels groups the label endpoints.
type Labels struct {
	svc  *service.LabelService
	cats *service.CategoryService
}

// NewLabels creates the label handler group.
func NewLabels(svc *service.LabelService, cats *service.CategoryService) *Labels {
	return &Labels{svc: svc, cats: cats}
}

type createLabelRequest struct {
	CategoryID  uuid.UUID  `json:"category_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}

// Create handles POST /api/labels.
func (h *Labels) Create(w http.ResponseWriter, r *http.Request) {
	var req createLabelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := service.CreateLabelInput{
		CategoryID:  req.CategoryID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if req.Active != nil {
		in.Active = *req.Active
	}
	l, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// Get handles GET /api/labels/{id}.
func (h *Labels) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	l, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type updateLabelRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Active      *bool      `json:"active,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	ClearParent bool       `json:"clear_parent,omitempty"`
}

// Update handles PATCH /api/labels/{id}: rename, re-parent, or both.
func (h *Labels) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req updateLabelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	l, err := h.svc.Update(r.Context(), id, service.UpdateLabelInput{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// Delete handles DELETE /api/labels/{id}.
func (h *Labels) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles POST /api/labels/{id}/toggle.
func (h *Labels) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	l, err := h.svc.ToggleActive(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// Children handles GET /api/labels/{id}/children.
func (h *Labels) Children(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	labels, err := h.svc.ListChildren(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

// Search handles GET /api/labels/search?q=.
func (h *Labels) Search(w http.ResponseWriter, r *http.Request) {
	labels, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

// Availability handles GET /api/labels/availability?name=&category={code}&parent=.
// It reports whether a name is still free among the would-be siblings.
func (h *Labels) Availability(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("category")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_argument", Message: "category query parameter is required"})
		return
	}
	cat, err := h.cats.GetByCode(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	parentID, ok := queryUUID(w, r, "parent")
	if !ok {
		return
	}
	free, err := h.svc.CheckNameAvailable(r.Context(), cat.ID, parentID, r.URL.Query().Get("name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": free})
}

// ListForCategory handles GET /api/labels?category={code}. The roots
// query flag narrows to top-level labels; active narrows to the active
// set the public surfaces show.
func (h *Labels) ListForCategory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := q.Get("category")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_argument", Message: "category query parameter is required"})
		return
	}

	if q.Has("active") {
		labels, err := h.svc.ListActiveByCode(r.Context(), code)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, labels)
		return
	}

	cat, err := h.cats.GetByCode(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if q.Has("roots") {
		labels, err := h.svc.ListRoots(r.Context(), cat.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, labels)
		return
	}

	labels, err := h.svc.ListByCategory(r.Context(), cat.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}
