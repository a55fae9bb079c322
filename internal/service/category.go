// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"preplab/internal/models"
	"preplab/internal/store"
)

// CategoryStore is the persistence surface the category service needs.
// *store.CategoryStore satisfies it; tests substitute an in-memory fake.
type CategoryStore interface {
	Insert(ctx context.Context, c *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByCode(ctx context.Context, code string) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	SoftDelete(ctx context.Context, id uuid.UUID) (deleted, hadLabels bool, err error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

// codePattern is the allowed shape of a category code after uppercasing.
var codePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// CategoryService manages the flat collection of label categories.
type CategoryService struct {
	cats CategoryStore
}

// NewCategoryService creates a CategoryService over the given store.
func NewCategoryService(cats CategoryStore) *CategoryService {
	return &CategoryService{cats: cats}
}

// CreateCategoryInput carries the fields for a new category.
type CreateCategoryInput struct {
	Name        string
	Code        string
	Description string
	Active      bool
}

// Create adds a category. The code is normalized to uppercase and is
// immutable afterwards; the slug is derived from the name with a
// collision-free numeric suffix when needed.
func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("category name is required")
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, invalid("category code is required")
	}
	if !codePattern.MatchString(code) {
		return nil, invalid("category code must match [A-Z][A-Z0-9_]*")
	}

	// Advisory probe; the partial unique index has the final word.
	taken, err := s.cats.CodeExists(ctx, code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, duplicate("category", "code already in use")
	}

	var created *models.Category
	err = createWithSlug(ctx, slugBase(name), s.cats.SlugExists, func(ctx context.Context, sl string) error {
		c, err := s.cats.Insert(ctx, &models.Category{
			Name:        name,
			Code:        code,
			Slug:        sl,
			Description: strings.TrimSpace(in.Description),
			Active:      in.Active,
		})
		if err == nil {
			created = c
		}
		return err
	})
	if errors.Is(err, store.ErrCodeTaken) {
		return nil, duplicate("category", "code already in use")
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID returns a live category or a not-found failure.
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.cats.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category")
	}
	return c, nil
}

// GetByCode returns a live category by its uppercase code.
func (s *CategoryService) GetByCode(ctx context.Context, code string) (*models.Category, error) {
	c, err := s.cats.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category")
	}
	return c, nil
}

// GetBySlug returns a live category by slug.
func (s *CategoryService) GetBySlug(ctx context.Context, sl string) (*models.Category, error) {
	c, err := s.cats.FindBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category")
	}
	return c, nil
}

// List returns all live categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.cats.List(ctx)
}

// UpdateCategoryInput carries partial category updates; nil fields are
// left unchanged. The code cannot be changed.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Active      *bool
}

// Update modifies a category's mutable fields.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in UpdateCategoryInput) (*models.Category, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("category name cannot be blank")
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.Active != nil {
		c.Active = *in.Active
	}

	if err := s.cats.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete soft-deletes a category. A category that still owns live labels
// is refused; the labels must be removed or reassigned first.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, hadLabels, err := s.cats.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}
	if hadLabels {
		return hasChildren("category", "category still has live labels")
	}
	return notFound("category")
}

// ToggleActive flips the active flag and returns the updated category.
func (s *CategoryService) ToggleActive(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Active = !c.Active
	if err := s.cats.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
