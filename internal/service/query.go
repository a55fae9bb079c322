// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"

	"github.com/google/uuid"

	"preplab/internal/models"
)

// ContentReader is the slice of the content store the query service
// needs: aggregation over sets of label IDs.
type ContentReader interface {
	CountForLabels(ctx context.Context, labelIDs []uuid.UUID) (int, error)
	ListForLabels(ctx context.Context, labelIDs []uuid.UUID) ([]models.ContentSummary, error)
	SampleForLabels(ctx context.Context, labelIDs []uuid.UUID, n int) ([]models.ContentSummary, error)
	ItemIDsForLabels(ctx context.Context, labelIDs []uuid.UUID) ([]uuid.UUID, error)
}

// CountCache memoizes descendant-closure counts. A miss reports found
// false with a nil error; infrastructure errors are returned so the
// caller can fall through to the store.
type CountCache interface {
	Get(ctx context.Context, labelID uuid.UUID) (n int, found bool, err error)
	Set(ctx context.Context, labelID uuid.UUID, n int) error
}

// QueryService answers item counts, listings and samples for a label,
// either over the label alone or over its whole descendant closure.
type QueryService struct {
	labelSvc *LabelService
	content  ContentReader
	counts   CountCache
}

// NewQueryService creates a QueryService. counts may be nil; closure
// counts are then computed on every call.
func NewQueryService(labelSvc *LabelService, content ContentReader, counts CountCache) *QueryService {
	return &QueryService{labelSvc: labelSvc, content: content, counts: counts}
}

// closure resolves a label and returns the ID set of the label plus all
// of its live descendants.
func (s *QueryService) closure(ctx context.Context, labelID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.labelSvc.GetByID(ctx, labelID); err != nil {
		return nil, err
	}
	descendants, err := s.labelSvc.DescendantIDs(ctx, labelID)
	if err != nil {
		return nil, err
	}
	return append([]uuid.UUID{labelID}, descendants...), nil
}

// CountDirect counts the active items tagged directly with the label.
// Zero is a valid answer.
func (s *QueryService) CountDirect(ctx context.Context, labelID uuid.UUID) (int, error) {
	if _, err := s.labelSvc.GetByID(ctx, labelID); err != nil {
		return 0, err
	}
	return s.content.CountForLabels(ctx, []uuid.UUID{labelID})
}

// CountWithDescendants counts the distinct active items tagged with
// the label or any of its descendants. An item tagged on several labels
// in the closure counts once. Answers are memoized in the count cache.
func (s *QueryService) CountWithDescendants(ctx context.Context, labelID uuid.UUID) (int, error) {
	if s.counts != nil {
		if n, found, err := s.counts.Get(ctx, labelID); err == nil && found {
			// A cached zero is still only valid for a live label.
			if _, lerr := s.labelSvc.GetByID(ctx, labelID); lerr != nil {
				return 0, lerr
			}
			return n, nil
		}
	}

	ids, err := s.closure(ctx, labelID)
	if err != nil {
		return 0, err
	}
	n, err := s.content.CountForLabels(ctx, ids)
	if err != nil {
		return 0, err
	}
	if s.counts != nil {
		_ = s.counts.Set(ctx, labelID, n)
	}
	return n, nil
}

// ListWithDescendants returns summaries of the distinct active items
// in the label's closure, ordered by title.
func (s *QueryService) ListWithDescendants(ctx context.Context, labelID uuid.UUID) ([]models.ContentSummary, error) {
	ids, err := s.closure(ctx, labelID)
	if err != nil {
		return nil, err
	}
	return s.content.ListForLabels(ctx, ids)
}

// ListDirect returns summaries of the active items tagged directly
// with the label.
func (s *QueryService) ListDirect(ctx context.Context, labelID uuid.UUID) ([]models.ContentSummary, error) {
	if _, err := s.labelSvc.GetByID(ctx, labelID); err != nil {
		return nil, err
	}
	return s.content.ListForLabels(ctx, []uuid.UUID{labelID})
}

// ItemIDs returns the distinct identifiers of the active items tagged
// with the label, over the closure when includeDescendants is set. The
// identifier form carries no summaries and suits bulk consumers.
func (s *QueryService) ItemIDs(ctx context.Context, labelID uuid.UUID, includeDescendants bool) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	var err error
	if includeDescendants {
		ids, err = s.closure(ctx, labelID)
	} else {
		if _, err = s.labelSvc.GetByID(ctx, labelID); err == nil {
			ids = []uuid.UUID{labelID}
		}
	}
	if err != nil {
		return nil, err
	}
	return s.content.ItemIDsForLabels(ctx, ids)
}

// Sample returns up to n items drawn uniformly from the label's item
// set, over the closure when includeDescendants is set. When fewer than
// n distinct items exist, they are all returned.
func (s *QueryService) Sample(ctx context.Context, labelID uuid.UUID, n int, includeDescendants bool) ([]models.ContentSummary, error) {
	if n <= 0 {
		return nil, invalid("sample size must be positive")
	}

	var ids []uuid.UUID
	var err error
	if includeDescendants {
		ids, err = s.closure(ctx, labelID)
	} else {
		if _, err = s.labelSvc.GetByID(ctx, labelID); err == nil {
			ids = []uuid.UUID{labelID}
		}
	}
	if err != nil {
		return nil, err
	}
	return s.content.SampleForLabels(ctx, ids, n)
}

// ListWithFallback returns the items tagged directly on the label, or,
// when the label has none, the items tagged directly on its root
// ancestor. A root label with no items returns an empty list.
func (s *QueryService) ListWithFallback(ctx context.Context, labelID uuid.UUID) ([]models.ContentSummary, error) {
	l, err := s.labelSvc.GetByID(ctx, labelID)
	if err != nil {
		return nil, err
	}

	items, err := s.content.ListForLabels(ctx, []uuid.UUID{l.ID})
	if err != nil {
		return nil, err
	}
	if len(items) > 0 || l.ParentID == nil {
		return items, nil
	}

	root, err := s.rootAncestor(ctx, l)
	if err != nil {
		return nil, err
	}
	return s.content.ListForLabels(ctx, []uuid.UUID{root.ID})
}

// rootAncestor walks parent links up to the category root. The visited
// guard mirrors DescendantIDs: a corrupted graph stops the walk instead
// of spinning.
func (s *QueryService) rootAncestor(ctx context.Context, l *models.Label) (*models.Label, error) {
	visited := map[uuid.UUID]bool{l.ID: true}
	for l.ParentID != nil {
		parent, err := s.labelSvc.labels.FindByID(ctx, *l.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		l = parent
	}
	return l, nil
}
