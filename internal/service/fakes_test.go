// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"preplab/internal/models"
	"preplab/internal/store"
)

// The fakes mirror the Postgres stores closely enough for the services
// not to notice: nil for missing rows, sentinel errors for uniqueness
// violations, soft deletes that keep slugs reserved.

type fakeCategoryStore struct {
	rows map[uuid.UUID]*models.Category
	// labels, when set, lets SoftDelete refuse categories that still
	// own live labels, like the real store's guarded statement does.
	labels *fakeLabelStore
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{rows: make(map[uuid.UUID]*models.Category)}
}

func (f *fakeCategoryStore) Insert(_ context.Context, c *models.Category) (*models.Category, error) {
	for _, r := range f.rows {
		if !r.Deleted && r.Code == c.Code {
			return nil, store.ErrCodeTaken
		}
		if r.Slug == c.Slug {
			return nil, store.ErrSlugTaken
		}
	}
	cp := *c
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeCategoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if r, ok := f.rows[id]; ok && !r.Deleted {
		out := *r
		return &out, nil
	}
	return nil, nil
}

func (f *fakeCategoryStore) FindByCode(_ context.Context, code string) (*models.Category, error) {
	for _, r := range f.rows {
		if !r.Deleted && r.Code == code {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, r := range f.rows {
		if !r.Deleted && r.Slug == slug {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryStore) List(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, r := range f.rows {
		if !r.Deleted {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategoryStore) Update(_ context.Context, c *models.Category) error {
	r, ok := f.rows[c.ID]
	if !ok || r.Deleted {
		return nil
	}
	r.Name = c.Name
	r.Description = c.Description
	r.Active = c.Active
	r.UpdatedAt = time.Now()
	return nil
}

func (f *fakeCategoryStore) SoftDelete(_ context.Context, id uuid.UUID) (bool, bool, error) {
	r, ok := f.rows[id]
	if !ok || r.Deleted {
		return false, false, nil
	}
	if f.labels != nil {
		for _, l := range f.labels.rows {
			if !l.Deleted && l.CategoryID == id {
				return false, true, nil
			}
		}
	}
	r.Deleted = true
	return true, false, nil
}

func (f *fakeCategoryStore) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, r := range f.rows {
		if r.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryStore) CodeExists(_ context.Context, code string) (bool, error) {
	for _, r := range f.rows {
		if !r.Deleted && r.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type fakeLabelStore struct {
	rows map[uuid.UUID]*models.Label
}

func newFakeLabelStore() *fakeLabelStore {
	return &fakeLabelStore{rows: make(map[uuid.UUID]*models.Label)}
}

func (f *fakeLabelStore) siblingClash(l *models.Label, exclude *uuid.UUID) bool {
	for _, r := range f.rows {
		if r.Deleted || r.CategoryID != l.CategoryID {
			continue
		}
		if exclude != nil && r.ID == *exclude {
			continue
		}
		if sameParent(r.ParentID, l.ParentID) && strings.EqualFold(r.Name, l.Name) {
			return true
		}
	}
	return false
}

func (f *fakeLabelStore) Insert(_ context.Context, l *models.Label) (*models.Label, error) {
	for _, r := range f.rows {
		if r.Slug == l.Slug {
			return nil, store.ErrSlugTaken
		}
	}
	if f.siblingClash(l, nil) {
		return nil, store.ErrNameTaken
	}
	cp := *l
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeLabelStore) FindByID(_ context.Context, id uuid.UUID) (*models.Label, error) {
	if r, ok := f.rows[id]; ok && !r.Deleted {
		out := *r
		return &out, nil
	}
	return nil, nil
}

func (f *fakeLabelStore) FindBySlug(_ context.Context, slug string) (*models.Label, error) {
	for _, r := range f.rows {
		if !r.Deleted && r.Slug == slug {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeLabelStore) collect(keep func(*models.Label) bool) []models.Label {
	var out []models.Label
	for _, r := range f.rows {
		if !r.Deleted && keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeLabelStore) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]models.Label, error) {
	return f.collect(func(l *models.Label) bool { return l.CategoryID == categoryID }), nil
}

func (f *fakeLabelStore) ListActiveByCategory(_ context.Context, categoryID uuid.UUID) ([]models.Label, error) {
	return f.collect(func(l *models.Label) bool { return l.CategoryID == categoryID && l.Active }), nil
}

func (f *fakeLabelStore) ListRoots(_ context.Context, categoryID uuid.UUID) ([]models.Label, error) {
	return f.collect(func(l *models.Label) bool { return l.CategoryID == categoryID && l.ParentID == nil }), nil
}

func (f *fakeLabelStore) ListChildren(_ context.Context, parentID uuid.UUID) ([]models.Label, error) {
	return f.collect(func(l *models.Label) bool { return l.ParentID != nil && *l.ParentID == parentID }), nil
}

func (f *fakeLabelStore) Search(_ context.Context, query string) ([]models.Label, error) {
	q := strings.ToLower(query)
	return f.collect(func(l *models.Label) bool { return strings.Contains(strings.ToLower(l.Name), q) }), nil
}

func (f *fakeLabelStore) ChildIDs(_ context.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	parents := make(map[uuid.UUID]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []uuid.UUID
	for _, r := range f.rows {
		if !r.Deleted && r.ParentID != nil && parents[*r.ParentID] {
			out = append(out, r.ID)
		}
	}
	return out, nil
}

func (f *fakeLabelStore) NameExists(_ context.Context, categoryID uuid.UUID, parentID *uuid.UUID, name string, exclude *uuid.UUID) (bool, error) {
	probe := &models.Label{CategoryID: categoryID, ParentID: parentID, Name: name}
	return f.siblingClash(probe, exclude), nil
}

func (f *fakeLabelStore) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, r := range f.rows {
		if r.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLabelStore) Update(_ context.Context, l *models.Label) error {
	r, ok := f.rows[l.ID]
	if !ok || r.Deleted {
		return nil
	}
	if f.siblingClash(l, &l.ID) {
		return store.ErrNameTaken
	}
	r.Name = l.Name
	r.ParentID = l.ParentID
	r.Description = l.Description
	r.Active = l.Active
	r.UpdatedAt = time.Now()
	return nil
}

func (f *fakeLabelStore) SoftDelete(_ context.Context, id uuid.UUID) (bool, bool, error) {
	r, ok := f.rows[id]
	if !ok || r.Deleted {
		return false, false, nil
	}
	for _, c := range f.rows {
		if !c.Deleted && c.ParentID != nil && *c.ParentID == id {
			return false, true, nil
		}
	}
	r.Deleted = true
	return true, false, nil
}

type fakeContentReader struct {
	// itemLabels maps item ID to the label IDs it is tagged with.
	itemLabels map[uuid.UUID][]uuid.UUID
	titles     map[uuid.UUID]string
}

func newFakeContentReader() *fakeContentReader {
	return &fakeContentReader{
		itemLabels: make(map[uuid.UUID][]uuid.UUID),
		titles:     make(map[uuid.UUID]string),
	}
}

func (f *fakeContentReader) add(title string, labelIDs ...uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.itemLabels[id] = labelIDs
	f.titles[id] = title
	return id
}

func (f *fakeContentReader) matching(labelIDs []uuid.UUID) []models.ContentSummary {
	wanted := make(map[uuid.UUID]bool, len(labelIDs))
	for _, id := range labelIDs {
		wanted[id] = true
	}
	var out []models.ContentSummary
	for itemID, tags := range f.itemLabels {
		for _, t := range tags {
			if wanted[t] {
				out = append(out, models.ContentSummary{
					ID:    itemID,
					Type:  models.ContentTypeQuestion,
					Title: f.titles[itemID],
					Slug:  f.titles[itemID],
				})
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (f *fakeContentReader) CountForLabels(_ context.Context, labelIDs []uuid.UUID) (int, error) {
	return len(f.matching(labelIDs)), nil
}

func (f *fakeContentReader) ListForLabels(_ context.Context, labelIDs []uuid.UUID) ([]models.ContentSummary, error) {
	return f.matching(labelIDs), nil
}

func (f *fakeContentReader) SampleForLabels(_ context.Context, labelIDs []uuid.UUID, n int) ([]models.ContentSummary, error) {
	items := f.matching(labelIDs)
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

func (f *fakeContentReader) ItemIDsForLabels(_ context.Context, labelIDs []uuid.UUID) ([]uuid.UUID, error) {
	items := f.matching(labelIDs)
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids, nil
}

type fakeCountCache struct {
	values      map[uuid.UUID]int
	invalidated int
}

func newFakeCountCache() *fakeCountCache {
	return &fakeCountCache{values: make(map[uuid.UUID]int)}
}

func (f *fakeCountCache) Get(_ context.Context, labelID uuid.UUID) (int, bool, error) {
	n, ok := f.values[labelID]
	return n, ok, nil
}

func (f *fakeCountCache) Set(_ context.Context, labelID uuid.UUID, n int) error {
	f.values[labelID] = n
	return nil
}

func (f *fakeCountCache) InvalidateAll(_ context.Context) error {
	f.values = make(map[uuid.UUID]int)
	f.invalidated++
	return nil
}
