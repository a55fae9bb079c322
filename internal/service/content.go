// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"preplab/internal/models"
)

// ContentStore is the persistence surface the content service needs.
type ContentStore interface {
	Create(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)
	FindBySlug(ctx context.Context, slug string) (*models.ContentItem, error)
	ListByType(ctx context.Context, contentType models.ContentType) ([]models.ContentItem, error)
	Update(ctx context.Context, c *models.ContentItem) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	SetLabels(ctx context.Context, contentID uuid.UUID, edges []models.ContentLabel) error
	LabelsForItem(ctx context.Context, contentID uuid.UUID) ([]models.ContentLabel, error)
}

// ContentService manages catalog items and their label assignments.
type ContentService struct {
	content ContentStore
	labels  LabelStore
	counts  CountInvalidator
}

// NewContentService creates a ContentService. counts may be nil.
func NewContentService(content ContentStore, labels LabelStore, counts CountInvalidator) *ContentService {
	return &ContentService{content: content, labels: labels, counts: counts}
}

func (s *ContentService) invalidateCounts(ctx context.Context) {
	if s.counts != nil {
		_ = s.counts.InvalidateAll(ctx)
	}
}

// CreateContentInput carries the fields for a new catalog item.
type CreateContentInput struct {
	Type    models.ContentType
	Title   string
	Body    string
	Status  models.ContentStatus
	Active  bool
	Labels  []uuid.UUID
	Primary *uuid.UUID
}

// Create adds a catalog item, derives its slug from the title, and
// attaches the given labels. The primary label, when set, must be one
// of the attached labels.
func (s *ContentService) Create(ctx context.Context, in CreateContentInput) (*models.ContentItem, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("content title is required")
	}
	if !in.Type.Valid() {
		return nil, invalid("unknown content type")
	}
	status := in.Status
	if status == "" {
		status = models.ContentStatusDraft
	}
	if status != models.ContentStatusDraft && status != models.ContentStatusPublished {
		return nil, invalid("unknown content status")
	}

	edges, err := s.buildEdges(ctx, in.Labels, in.Primary)
	if err != nil {
		return nil, err
	}

	var created *models.ContentItem
	err = createWithSlug(ctx, slugBase(title), s.content.SlugExists, func(ctx context.Context, sl string) error {
		c, err := s.content.Create(ctx, &models.ContentItem{
			Type:   in.Type,
			Title:  title,
			Slug:   sl,
			Body:   in.Body,
			Status: status,
			Active: in.Active,
		})
		if err == nil {
			created = c
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(edges) > 0 {
		for i := range edges {
			edges[i].ContentID = created.ID
		}
		if err := s.content.SetLabels(ctx, created.ID, edges); err != nil {
			return nil, err
		}
	}
	s.invalidateCounts(ctx)
	return created, nil
}

// buildEdges validates a label ID set against live labels and shapes it
// into ordered content-label edges.
func (s *ContentService) buildEdges(ctx context.Context, labelIDs []uuid.UUID, primary *uuid.UUID) ([]models.ContentLabel, error) {
	seen := make(map[uuid.UUID]bool, len(labelIDs))
	edges := make([]models.ContentLabel, 0, len(labelIDs))
	primarySeen := false

	for _, id := range labelIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		l, err := s.labels.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, notFound("label")
		}
		isPrimary := primary != nil && *primary == id
		primarySeen = primarySeen || isPrimary
		edges = append(edges, models.ContentLabel{
			LabelID:  id,
			Primary:  isPrimary,
			Position: len(edges),
		})
	}
	if primary != nil && !primarySeen {
		return nil, invalid("primary label must be among the attached labels")
	}
	return edges, nil
}

// GetByID returns a live item or a not-found failure.
func (s *ContentService) GetByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	c, err := s.content.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("content")
	}
	return c, nil
}

// GetBySlug returns a live item by slug.
func (s *ContentService) GetBySlug(ctx context.Context, sl string) (*models.ContentItem, error) {
	c, err := s.content.FindBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("content")
	}
	return c, nil
}

// ListByType returns the live items of one type, newest first.
func (s *ContentService) ListByType(ctx context.Context, t models.ContentType) ([]models.ContentItem, error) {
	if !t.Valid() {
		return nil, invalid("unknown content type")
	}
	return s.content.ListByType(ctx, t)
}

// UpdateContentInput carries partial item updates; nil fields are left
// unchanged. The type is immutable.
type UpdateContentInput struct {
	Title  *string
	Body   *string
	Status *models.ContentStatus
	Active *bool
}

// Update modifies an item's mutable fields. Publishing a draft stamps
// PublishedAt once; re-publishing keeps the original timestamp.
func (s *ContentService) Update(ctx context.Context, id uuid.UUID, in UpdateContentInput) (*models.ContentItem, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, invalid("content title cannot be blank")
		}
		c.Title = title
	}
	if in.Body != nil {
		c.Body = *in.Body
	}
	if in.Status != nil {
		if *in.Status != models.ContentStatusDraft && *in.Status != models.ContentStatusPublished {
			return nil, invalid("unknown content status")
		}
		c.Status = *in.Status
	}
	if in.Active != nil {
		c.Active = *in.Active
	}

	if err := s.content.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateCounts(ctx)
	return c, nil
}

// Delete soft-deletes an item. Its label edges stay in place for a
// possible restore; the aggregation queries already filter on deleted.
func (s *ContentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.content.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidateCounts(ctx)
	return nil
}

// SetLabels replaces an item's label assignments.
func (s *ContentService) SetLabels(ctx context.Context, id uuid.UUID, labelIDs []uuid.UUID, primary *uuid.UUID) ([]models.ContentLabel, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	edges, err := s.buildEdges(ctx, labelIDs, primary)
	if err != nil {
		return nil, err
	}
	for i := range edges {
		edges[i].ContentID = id
	}
	if err := s.content.SetLabels(ctx, id, edges); err != nil {
		return nil, err
	}
	s.invalidateCounts(ctx)
	return edges, nil
}

// Labels returns an item's label assignments in display order.
func (s *ContentService) Labels(ctx context.Context, id uuid.UUID) ([]models.ContentLabel, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.content.LabelsForItem(ctx, id)
}
