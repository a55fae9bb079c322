// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"preplab/internal/markdown"
	"preplab/internal/models"
	"preplab/internal/service"
)

// Content groups the catalog item endpoints.
type Content struct {
	svc *service.ContentService
}

// NewContent creates the content handler group.
func NewContent(svc *service.ContentService) *Content {
	return &Content{svc: svc}
}

type createContentRequest struct {
	Type    models.ContentType   `json:"type"`
	Title   string               `json:"title"`
	Body    string               `json:"body,omitempty"`
	Status  models.ContentStatus `json:"status,omitempty"`
	Active  *bool                `json:"active,omitempty"`
	Labels  []uuid.UUID          `json:"labels,omitempty"`
	Primary *uuid.UUID           `json:"primary,omitempty"`
}

// Create handles POST /api/content.
func (h *Content) Create(w http.ResponseWriter, r *http.Request) {
	var req createContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := service.CreateContentInput{
		Type:    req.Type,
		Title:   req.Title,
		Body:    req.Body,
		Status:  req.Status,
		Active:  true,
		Labels:  req.Labels,
		Primary: req.Primary,
	}
	if req.Active != nil {
		in.Active = *req.Active
	}
	item, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Get handles GET /api/content/{id}.
func (h *Content) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// BySlug handles GET /api/content/slug/{slug}.
func (h *Content) BySlug(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// ListByType handles GET /api/content?type=.
func (h *Content) ListByType(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListByType(r.Context(), models.ContentType(r.URL.Query().Get("type")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type updateContentRequest struct {
	Title  *string               `json:"title,omitempty"`
	Body   *string               `json:"body,omitempty"`
	Status *models.ContentStatus `json:"status,omitempty"`
	Active *bool                 `json:"active,omitempty"`
}

// Update handles PATCH /api/content/{id}.
func (h *Content) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req updateContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.Update(r.Context(), id, service.UpdateContentInput{
		Title:  req.Title,
		Body:   req.Body,
		Status: req.Status,
		Active: req.Active,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/content/{id}.
func (h *Content) Delete(w http.ResponseWriter, r *http.Request) {
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

type setLabelsRequest struct {
	Labels  []uuid.UUID `json:"labels"`
	Primary *uuid.UUID  `json:"primary,omitempty"`
}

// SetLabels handles PUT /api/content/{id}/labels, replacing the item's
// label assignments.
func (h *Content) SetLabels(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req setLabelsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	edges, err := h.svc.SetLabels(r.Context(), id, req.Labels, req.Primary)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edges)
}

// HTML handles GET /api/content/{id}/html, returning the item's body
// rendered from Markdown.
func (h *Content) HTML(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rendered, err := markdown.ToHTML(item.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(rendered))
}

// Labels handles GET /api/content/{id}/labels.
func (h *Content) Labels(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	edges, err := h.svc.Labels(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edges)
}
