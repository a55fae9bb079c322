// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"preplab/internal/models"
	"preplab/internal/service"
	"preplab/internal/store"
)

// In-memory stores backing the handler tests. They mimic the Postgres
// stores: nil for missing rows, sentinel errors on uniqueness clashes.

type memStores struct {
	categories map[uuid.UUID]*models.Category
	labels     map[uuid.UUID]*models.Label
	content    map[uuid.UUID]*models.ContentItem
	edges      map[uuid.UUID][]models.ContentLabel
}

func newMemStores() *memStores {
	return &memStores{
		categories: make(map[uuid.UUID]*models.Category),
		labels:     make(map[uuid.UUID]*models.Label),
		content:    make(map[uuid.UUID]*models.ContentItem),
		edges:      make(map[uuid.UUID][]models.ContentLabel),
	}
}

type memCategoryStore struct{ m *memStores }

func (s memCategoryStore) Insert(_ context.Context, c *models.Category) (*models.Category, error) {
	for _, r := range s.m.categories {
		if !r.Deleted && r.Code == c.Code {
			return nil, store.ErrCodeTaken
		}
		if r.Slug == c.Slug {
			return nil, store.ErrSlugTaken
		}
	}
	cp := *c
	cp.ID = uuid.New()
	s.m.categories[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s memCategoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if r, ok := s.m.categories[id]; ok && !r.Deleted {
		out := *r
		return &out, nil
	}
	return nil, nil
}

func (s memCategoryStore) FindByCode(_ context.Context, code string) (*models.Category, error) {
	for _, r := range s.m.categories {
		if !r.Deleted && r.Code == code {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (s memCategoryStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, r := range s.m.categories {
		if !r.Deleted && r.Slug == slug {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (s memCategoryStore) List(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, r := range s.m.categories {
		if !r.Deleted {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s memCategoryStore) Update(_ context.Context, c *models.Category) error {
	if r, ok := s.m.categories[c.ID]; ok && !r.Deleted {
		r.Name, r.Description, r.Active = c.Name, c.Description, c.Active
	}
	return nil
}

func (s memCategoryStore) SoftDelete(_ context.Context, id uuid.UUID) (bool, bool, error) {
	r, ok := s.m.categories[id]
	if !ok || r.Deleted {
		return false, false, nil
	}
	for _, l := range s.m.labels {
		if !l.Deleted && l.CategoryID == id {
			return false, true, nil
		}
	}
	r.Deleted = true
	return true, false, nil
}

func (s memCategoryStore) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, r := range s.m.categories {
		if r.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s memCategoryStore) CodeExists(_ context.Context, code string) (bool, error) {
	for _, r := range s.m.categories {
		if !r.Deleted && r.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type memLabelStore struct{ m *memStores }

func parentEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s memLabelStore) clash(l *models.Label, exclude *uuid.UUID) bool {
	for _, r := range s.m.labels {
		if r.Deleted || r.CategoryID != l.CategoryID {
			continue
		}
		if exclude != nil && r.ID == *exclude {
			continue
		}
		if parentEqual(r.ParentID, l.ParentID) && strings.EqualFold(r.Name, l.Name) {
			return true
		}
	}
	return false
}

func (s memLabelStore) Insert(_ context.Context, l *models.Label) (*models.Label, error) {
	for _, r := range s.m.labels {
		if r.Slug == l.Slug {
			return nil, store.ErrSlugTaken
		}
	}
	if s.clash(l, nil) {
		return nil, store.ErrNameTaken
	}
	cp := *l
	cp.ID = uuid.New()
	s.m.labels[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s memLabelStore) FindByID(_ context.Context, id uuid.UUID) (*models.Label, error) {
	if r, ok := s.m.labels[id]; ok && !r.Deleted {
		out := *r
		return &out, nil
	}
	return nil, nil
}

func (s memLabelStore) FindBySlug(_ context.Context, slug string) (*models.Label, error) {
	for _, r := range s.m.labels {
		if !r.Deleted && r.Slug == slug {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (s memLabelStore) collect(keep func(*models.Label) bool) []models.Label {
	var out []models.Label
	for _, r := range s.m.labels {
		if !r.Deleted && keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s memLabelStore) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]models.Label, error) {
	return s.collect(func(l *models.Label) bool { return l.CategoryID == categoryID }), nil
}

func (s memLabelStore) ListActiveByCategory(_ context.Context, categoryID uuid.UUID) ([]models.Label, error) {
	return s.collect(func(l *models.Label) bool { return l.CategoryID == categoryID && l.Active }), nil
}

func (s memLabelStore) ListRoots(_ context.Context, categoryID uuid.UUID) ([]models.Label, error) {
	return s.collect(func(l *models.Label) bool { return l.CategoryID == categoryID && l.ParentID == nil }), nil
}

func (s memLabelStore) ListChildren(_ context.Context, parentID uuid.UUID) ([]models.Label, error) {
	return s.collect(func(l *models.Label) bool { return l.ParentID != nil && *l.ParentID == parentID }), nil
}

func (s memLabelStore) Search(_ context.Context, query string) ([]models.Label, error) {
	q := strings.ToLower(query)
	return s.collect(func(l *models.Label) bool { return strings.Contains(strings.ToLower(l.Name), q) }), nil
}

func (s memLabelStore) ChildIDs(_ context.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	parents := make(map[uuid.UUID]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []uuid.UUID
	for _, r := range s.m.labels {
		if !r.Deleted && r.ParentID != nil && parents[*r.ParentID] {
			out = append(out, r.ID)
		}
	}
	return out, nil
}

func (s memLabelStore) NameExists(_ context.Context, categoryID uuid.UUID, parentID *uuid.UUID, name string, exclude *uuid.UUID) (bool, error) {
	return s.clash(&models.Label{CategoryID: categoryID, ParentID: parentID, Name: name}, exclude), nil
}

func (s memLabelStore) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, r := range s.m.labels {
		if r.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s memLabelStore) Update(_ context.Context, l *models.Label) error {
	r, ok := s.m.labels[l.ID]
	if !ok || r.Deleted {
		return nil
	}
	if s.clash(l, &l.ID) {
		return store.ErrNameTaken
	}
	r.Name, r.ParentID, r.Description, r.Active = l.Name, l.ParentID, l.Description, l.Active
	return nil
}

func (s memLabelStore) SoftDelete(_ context.Context, id uuid.UUID) (bool, bool, error) {
	r, ok := s.m.labels[id]
	if !ok || r.Deleted {
		return false, false, nil
	}
	for _, c := range s.m.labels {
		if !c.Deleted && c.ParentID != nil && *c.ParentID == id {
			return false, true, nil
		}
	}
	r.Deleted = true
	return true, false, nil
}

type memContentStore struct{ m *memStores }

func (s memContentStore) Create(_ context.Context, c *models.ContentItem) (*models.ContentItem, error) {
	for _, r := range s.m.content {
		if r.Slug == c.Slug {
			return nil, store.ErrSlugTaken
		}
	}
	cp := *c
	cp.ID = uuid.New()
	s.m.content[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s memContentStore) FindByID(_ context.Context, id uuid.UUID) (*models.ContentItem, error) {
	if r, ok := s.m.content[id]; ok && !r.Deleted {
		out := *r
		return &out, nil
	}
	return nil, nil
}

func (s memContentStore) FindBySlug(_ context.Context, slug string) (*models.ContentItem, error) {
	for _, r := range s.m.content {
		if !r.Deleted && r.Slug == slug {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (s memContentStore) ListByType(_ context.Context, t models.ContentType) ([]models.ContentItem, error) {
	var out []models.ContentItem
	for _, r := range s.m.content {
		if !r.Deleted && r.Type == t {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s memContentStore) Update(_ context.Context, c *models.ContentItem) error {
	if r, ok := s.m.content[c.ID]; ok && !r.Deleted {
		r.Title, r.Body, r.Status, r.Active = c.Title, c.Body, c.Status, c.Active
	}
	return nil
}

func (s memContentStore) SoftDelete(_ context.Context, id uuid.UUID) error {
	if r, ok := s.m.content[id]; ok {
		r.Deleted = true
	}
	return nil
}

func (s memContentStore) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, r := range s.m.content {
		if r.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s memContentStore) SetLabels(_ context.Context, contentID uuid.UUID, edges []models.ContentLabel) error {
	s.m.edges[contentID] = append([]models.ContentLabel(nil), edges...)
	return nil
}

func (s memContentStore) LabelsForItem(_ context.Context, contentID uuid.UUID) ([]models.ContentLabel, error) {
	return append([]models.ContentLabel(nil), s.m.edges[contentID]...), nil
}

func (s memContentStore) matching(labelIDs []uuid.UUID) []models.ContentSummary {
	wanted := make(map[uuid.UUID]bool, len(labelIDs))
	for _, id := range labelIDs {
		wanted[id] = true
	}
	var out []models.ContentSummary
	for itemID, edges := range s.m.edges {
		item, ok := s.m.content[itemID]
		if !ok || item.Deleted || !item.Active {
			continue
		}
		for _, e := range edges {
			if wanted[e.LabelID] {
				out = append(out, models.ContentSummary{ID: item.ID, Type: item.Type, Title: item.Title, Slug: item.Slug})
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (s memContentStore) CountForLabels(_ context.Context, labelIDs []uuid.UUID) (int, error) {
	return len(s.matching(labelIDs)), nil
}

func (s memContentStore) ListForLabels(_ context.Context, labelIDs []uuid.UUID) ([]models.ContentSummary, error) {
	return s.matching(labelIDs), nil
}

func (s memContentStore) SampleForLabels(_ context.Context, labelIDs []uuid.UUID, n int) ([]models.ContentSummary, error) {
	items := s.matching(labelIDs)
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

func (s memContentStore) ItemIDsForLabels(_ context.Context, labelIDs []uuid.UUID) ([]uuid.UUID, error) {
	items := s.matching(labelIDs)
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids, nil
}

// testAPI wires the full handler stack over the in-memory stores with
// the same route shapes the real router registers.
type testAPI struct {
	router chi.Router
	stores *memStores

	categories *service.CategoryService
	labels     *service.LabelService
	content    *service.ContentService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	m := newMemStores()
	cats := memCategoryStore{m}
	labelStore := memLabelStore{m}
	contentStore := memContentStore{m}

	categorySvc := service.NewCategoryService(cats)
	labelSvc := service.NewLabelService(labelStore, cats, nil)
	querySvc := service.NewQueryService(labelSvc, contentStore, nil)
	contentSvc := service.NewContentService(contentStore, labelStore, nil)
	navigator := service.NewNavigator(labelSvc, querySvc, cats)

	categoriesH := NewCategories(categorySvc)
	labelsH := NewLabels(labelSvc, categorySvc)
	browseH := NewBrowse(querySvc, navigator)
	contentH := NewContent(contentSvc)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoriesH.List)
			r.Post("/", categoriesH.Create)
			r.Get("/slug/{slug}", categoriesH.BySlug)
			r.Get("/{id}", categoriesH.Get)
			r.Patch("/{id}", categoriesH.Update)
			r.Delete("/{id}", categoriesH.Delete)
			r.Post("/{id}/toggle", categoriesH.Toggle)
		})
		r.Route("/labels", func(r chi.Router) {
			r.Get("/", labelsH.ListForCategory)
			r.Get("/search", labelsH.Search)
			r.Get("/availability", labelsH.Availability)
			r.Post("/", labelsH.Create)
			r.Get("/{id}", labelsH.Get)
			r.Patch("/{id}", labelsH.Update)
			r.Delete("/{id}", labelsH.Delete)
			r.Post("/{id}/toggle", labelsH.Toggle)
			r.Get("/{id}/children", labelsH.Children)
			r.Get("/{id}/count", browseH.Count)
			r.Get("/{id}/items", browseH.Items)
			r.Get("/{id}/sample", browseH.Sample)
			r.Get("/{id}/node", browseH.Node)
		})
		r.Route("/taxonomy", func(r chi.Router) {
			r.Get("/{category}/{label}", browseH.Resolve)
		})
		r.Route("/content", func(r chi.Router) {
			r.Get("/", contentH.ListByType)
			r.Post("/", contentH.Create)
			r.Get("/slug/{slug}", contentH.BySlug)
			r.Get("/{id}", contentH.Get)
			r.Patch("/{id}", contentH.Update)
			r.Delete("/{id}", contentH.Delete)
			r.Put("/{id}/labels", contentH.SetLabels)
			r.Get("/{id}/labels", contentH.Labels)
			r.Get("/{id}/html", contentH.HTML)
		})
	})

	return &testAPI{
		router:     r,
		stores:     m,
		categories: categorySvc,
		labels:     labelSvc,
		content:    contentSvc,
	}
}
