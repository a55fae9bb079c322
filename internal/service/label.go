// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"preplab/internal/models"
	"preplab/internal/store"
)

// LabelStore is the persistence surface the label service needs.
type LabelStore interface {
	Insert(ctx context.Context, l *models.Label) (*models.Label, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Label, error)
	FindBySlug(ctx context.Context, slug string) (*models.Label, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Label, error)
	ListActiveByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Label, error)
	ListRoots(ctx context.Context, categoryID uuid.UUID) ([]models.Label, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Label, error)
	Search(ctx context.Context, query string) ([]models.Label, error)
	ChildIDs(ctx context.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error)
	NameExists(ctx context.Context, categoryID uuid.UUID, parentID *uuid.UUID, name string, exclude *uuid.UUID) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, l *models.Label) error
	SoftDelete(ctx context.Context, id uuid.UUID) (deleted, hadChildren bool, err error)
}

// CountInvalidator drops cached aggregation counts after a mutation that
// can change any label's item closure. A nil invalidator is a no-op.
type CountInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// LabelService manages labels and enforces the tree invariants: every
// label belongs to exactly one category, a child's category matches its
// parent's, sibling names are unique case-insensitively, the graph stays
// acyclic, and a label with live children cannot be deleted.
type LabelService struct {
	labels LabelStore
	cats   CategoryStore
	counts CountInvalidator
}

// NewLabelService creates a LabelService. counts may be nil when no
// count cache is configured.
func NewLabelService(labels LabelStore, cats CategoryStore, counts CountInvalidator) *LabelService {
	return &LabelService{labels: labels, cats: cats, counts: counts}
}

func (s *LabelService) invalidateCounts(ctx context.Context) {
	if s.counts != nil {
		// Invalidation failures are not surfaced; stale counts expire
		// with the cache TTL anyway.
		_ = s.counts.InvalidateAll(ctx)
	}
}

// CreateLabelInput carries the fields for a new label. A nil ParentID
// creates a root label in the category.
type CreateLabelInput struct {
	CategoryID  uuid.UUID
	ParentID    *uuid.UUID
	Name        string
	Description string
	Active      bool
}

// Create adds a label under the given category and optional parent.
func (s *LabelService) Create(ctx context.Context, in CreateLabelInput) (*models.Label, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("label name is required")
	}

	cat, err := s.cats.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, notFound("category")
	}

	if in.ParentID != nil {
		parent, err := s.labels.FindByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, notFound("parent")
		}
		if parent.CategoryID != in.CategoryID {
			return nil, categoryMismatch()
		}
	}

	// Advisory probe for a friendlier error; the sibling-name index is
	// the final authority under concurrency.
	taken, err := s.labels.NameExists(ctx, in.CategoryID, in.ParentID, name, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, duplicate("label", "name already used by a sibling")
	}

	var created *models.Label
	err = createWithSlug(ctx, slugBase(name), s.labels.SlugExists, func(ctx context.Context, sl string) error {
		l, err := s.labels.Insert(ctx, &models.Label{
			CategoryID:  in.CategoryID,
			ParentID:    in.ParentID,
			Name:        name,
			Slug:        sl,
			Description: strings.TrimSpace(in.Description),
			Active:      in.Active,
		})
		if err == nil {
			created = l
		}
		return err
	})
	if errors.Is(err, store.ErrNameTaken) {
		return nil, duplicate("label", "name already used by a sibling")
	}
	if err != nil {
		return nil, err
	}
	s.invalidateCounts(ctx)
	return created, nil
}

// GetByID returns a live label or a not-found failure.
func (s *LabelService) GetByID(ctx context.Context, id uuid.UUID) (*models.Label, error) {
	l, err := s.labels.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, notFound("label")
	}
	return l, nil
}

// GetBySlug returns a live label by slug.
func (s *LabelService) GetBySlug(ctx context.Context, sl string) (*models.Label, error) {
	l, err := s.labels.FindBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, notFound("label")
	}
	return l, nil
}

// ListByCategory returns all live labels of a category, ordered by name.
func (s *LabelService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Label, error) {
	if _, err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.labels.ListByCategory(ctx, categoryID)
}

// ListActiveByCode returns the active labels of the category with the
// given code. This is the listing public surfaces use.
func (s *LabelService) ListActiveByCode(ctx context.Context, code string) ([]models.Label, error) {
	cat, err := s.cats.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, notFound("category")
	}
	return s.labels.ListActiveByCategory(ctx, cat.ID)
}

// ListRoots returns the top-level labels of a category.
func (s *LabelService) ListRoots(ctx context.Context, categoryID uuid.UUID) ([]models.Label, error) {
	if _, err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.labels.ListRoots(ctx, categoryID)
}

// ListChildren returns the direct children of a label.
func (s *LabelService) ListChildren(ctx context.Context, id uuid.UUID) ([]models.Label, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.labels.ListChildren(ctx, id)
}

// Search finds live labels whose name contains the query,
// case-insensitively, across all categories.
func (s *LabelService) Search(ctx context.Context, query string) ([]models.Label, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("search query is required")
	}
	return s.labels.Search(ctx, query)
}

// CheckNameAvailable reports whether name is free among the live
// children of parentID (the roots of the category when nil).
func (s *LabelService) CheckNameAvailable(ctx context.Context, categoryID uuid.UUID, parentID *uuid.UUID, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, invalid("label name is required")
	}
	taken, err := s.labels.NameExists(ctx, categoryID, parentID, name, nil)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// UpdateLabelInput carries partial label updates; nil fields are left
// unchanged. The category is immutable. Setting ClearParent moves the
// label to the category roots; otherwise a non-nil ParentID re-parents.
type UpdateLabelInput struct {
	Name        *string
	Description *string
	Active      *bool
	ParentID    *uuid.UUID
	ClearParent bool
}

// Update modifies a label. A rename is checked against the siblings of
// the effective parent, excluding the label itself. A re-parent is
// refused when the target is the label itself or any of its
// descendants, which would close a cycle.
func (s *LabelService) Update(ctx context.Context, id uuid.UUID, in UpdateLabelInput) (*models.Label, error) {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newParent := l.ParentID
	if in.ClearParent {
		newParent = nil
	} else if in.ParentID != nil {
		newParent = in.ParentID
	}

	if newParent != nil && !sameParent(l.ParentID, newParent) {
		if *newParent == l.ID {
			return nil, circular("label cannot be its own parent")
		}
		parent, err := s.labels.FindByID(ctx, *newParent)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, notFound("parent")
		}
		if parent.CategoryID != l.CategoryID {
			return nil, categoryMismatch()
		}
		descendants, err := s.DescendantIDs(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		for _, d := range descendants {
			if d == *newParent {
				return nil, circular("new parent is a descendant of the label")
			}
		}
		// The cycle check reads the tree outside the update statement,
		// so two opposing re-parents racing under read committed can
		// still close a cycle. The walk in DescendantIDs tolerates one
		// by tracking visited IDs instead of looping forever.
	}

	name := l.Name
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("label name cannot be blank")
		}
	}
	if in.Name != nil || !sameParent(l.ParentID, newParent) {
		taken, err := s.labels.NameExists(ctx, l.CategoryID, newParent, name, &l.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, duplicate("label", "name already used by a sibling")
		}
	}

	l.Name = name
	l.ParentID = newParent
	if in.Description != nil {
		l.Description = strings.TrimSpace(*in.Description)
	}
	if in.Active != nil {
		l.Active = *in.Active
	}

	if err := s.labels.Update(ctx, l); err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			return nil, duplicate("label", "name already used by a sibling")
		}
		return nil, err
	}
	s.invalidateCounts(ctx)
	return l, nil
}

// Delete soft-deletes a label. A label with live children is refused;
// the subtree has to be deleted leaf-first or re-parented away.
func (s *LabelService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, hadChildren, err := s.labels.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if deleted {
		s.invalidateCounts(ctx)
		return nil
	}
	if hadChildren {
		return hasChildren("label", "label still has live children")
	}
	return notFound("label")
}

// ToggleActive flips the active flag and returns the updated label.
func (s *LabelService) ToggleActive(ctx context.Context, id uuid.UUID) (*models.Label, error) {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Active = !l.Active
	if err := s.labels.Update(ctx, l); err != nil {
		return nil, err
	}
	s.invalidateCounts(ctx)
	return l, nil
}

// DescendantIDs returns the IDs of every live label below id, in
// breadth-first order. id itself is not included. The walk batches one
// store query per tree level and skips already-visited IDs, so it
// terminates even on a corrupted graph.
func (s *LabelService) DescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	visited := map[uuid.UUID]bool{id: true}
	frontier := []uuid.UUID{id}
	var out []uuid.UUID

	for len(frontier) > 0 {
		children, err := s.labels.ChildIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, c := range children {
			if visited[c] {
				continue
			}
			visited[c] = true
			out = append(out, c)
			frontier = append(frontier, c)
		}
	}
	return out, nil
}

func (s *LabelService) requireCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	cat, err := s.cats.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, notFound("category")
	}
	return cat, nil
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
