// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"preplab/internal/models"
)

// CategoryStore manages label categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, code, slug, description, active, deleted, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Code, &c.Slug, &c.Description,
		&c.Active, &c.Deleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert creates a new category and returns it. A live category with the
// same code, or any category with the same slug, yields ErrCodeTaken or
// ErrSlugTaken respectively.
func (s *CategoryStore) Insert(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, code, slug, description, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Code, c.Slug, c.Description, c.Active,
	)
	result, err := scanCategory(row)
	if err != nil {
		if err = translateUnique(err); err == ErrCodeTaken || err == ErrSlugTaken {
			return nil, err
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return result, nil
}

// FindByID retrieves a live category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND NOT deleted`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByCode retrieves a live category by its uppercase code.
func (s *CategoryStore) FindByCode(ctx context.Context, code string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE code = $1 AND NOT deleted`, code)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by code: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a live category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1 AND NOT deleted`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// List returns all live categories ordered by name, with live label counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.code, c.slug, c.description, c.active, c.deleted,
		       c.created_at, c.updated_at,
		       COUNT(l.id) AS label_count
		FROM categories c
		LEFT JOIN labels l ON l.category_id = c.id AND NOT l.deleted
		WHERE NOT c.deleted
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Code, &c.Slug, &c.Description, &c.Active, &c.Deleted,
			&c.CreatedAt, &c.UpdatedAt, &c.LabelCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Update modifies the mutable fields of a category. The code is immutable
// and deliberately absent from the SET list.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, description = $2, active = $3, updated_at = NOW()
		WHERE id = $4 AND NOT deleted
	`, c.Name, c.Description, c.Active, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// SoftDelete marks a category deleted if it has no live labels. The
// child check and the flag flip happen in one statement so a concurrent
// label insert cannot slip between them. Returns (deleted, hadLabels).
func (s *CategoryStore) SoftDelete(ctx context.Context, id uuid.UUID) (bool, bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET deleted = TRUE, active = FALSE, updated_at = NOW()
		WHERE id = $1 AND NOT deleted
		  AND NOT EXISTS (
			SELECT 1 FROM labels l WHERE l.category_id = $1 AND NOT l.deleted
		  )
	`, id)
	if err != nil {
		return false, false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, false, fmt.Errorf("delete category rows: %w", err)
	}
	if n > 0 {
		return true, false, nil
	}

	// Nothing happened: either the category is gone or labels remain.
	var labels int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM labels WHERE category_id = $1 AND NOT deleted`, id).Scan(&labels)
	if err != nil {
		return false, false, fmt.Errorf("delete category recheck: %w", err)
	}
	return false, labels > 0, nil
}

// SlugExists reports whether any category, deleted or not, holds the slug.
func (s *CategoryStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category slug exists: %w", err)
	}
	return exists, nil
}

// CodeExists reports whether a live category holds the code.
func (s *CategoryStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE code = $1 AND NOT deleted)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category code exists: %w", err)
	}
	return exists, nil
}
