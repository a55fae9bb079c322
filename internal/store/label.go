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

// LabelStore manages labels, the nodes of the per-category trees.
type LabelStore struct {
	db *sql.DB
}

// NewLabelStore returns a new LabelStore.
func NewLabelStore(db *sql.DB) *LabelStore {
	return &LabelStore{db: db}
}

const labelColumns = `id, category_id, parent_id, name, slug, description, active, deleted, created_at, updated_at`

// scanLabel scans a row into a Label struct.
func scanLabel(scanner interface{ Scan(...any) error }) (*models.Label, error) {
	var l models.Label
	err := scanner.Scan(
		&l.ID, &l.CategoryID, &l.ParentID, &l.Name, &l.Slug,
		&l.Description, &l.Active, &l.Deleted, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// scanLabels drains a multi-row result set.
func scanLabels(rows *sql.Rows) ([]models.Label, error) {
	defer rows.Close()
	var items []models.Label
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

// Insert creates a new label and returns it. Uniqueness violations come
// back as ErrSlugTaken or ErrNameTaken; the indexes behind them are the
// final authority, the service-level existence probes are only advisory.
func (s *LabelStore) Insert(ctx context.Context, l *models.Label) (*models.Label, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO labels (category_id, parent_id, name, slug, description, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+labelColumns,
		l.CategoryID, l.ParentID, l.Name, l.Slug, l.Description, l.Active,
	)
	result, err := scanLabel(row)
	if err != nil {
		if err = translateUnique(err); err == ErrSlugTaken || err == ErrNameTaken {
			return nil, err
		}
		return nil, fmt.Errorf("insert label: %w", err)
	}
	return result, nil
}

// FindByID retrieves a live label by ID. Returns nil if not found.
func (s *LabelStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Label, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE id = $1 AND NOT deleted`, id)
	l, err := scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find label by id: %w", err)
	}
	return l, nil
}

// FindBySlug retrieves a live label by slug. Returns nil if not found.
func (s *LabelStore) FindBySlug(ctx context.Context, slug string) (*models.Label, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE slug = $1 AND NOT deleted`, slug)
	l, err := scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find label by slug: %w", err)
	}
	return l, nil
}

// ListByCategory returns all live labels of a category ordered by name.
func (s *LabelStore) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Label, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE category_id = $1 AND NOT deleted ORDER BY name`,
		categoryID)
	if err != nil {
		return nil, fmt.Errorf("list labels by category: %w", err)
	}
	return scanLabels(rows)
}

// ListActiveByCategory returns the live, active labels of a category
// ordered by name.
func (s *LabelStore) ListActiveByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Label, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+labelColumns+` FROM labels
		 WHERE category_id = $1 AND active AND NOT deleted ORDER BY name`,
		categoryID)
	if err != nil {
		return nil, fmt.Errorf("list active labels: %w", err)
	}
	return scanLabels(rows)
}

// ListRoots returns the live root labels of a category ordered by name.
func (s *LabelStore) ListRoots(ctx context.Context, categoryID uuid.UUID) ([]models.Label, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+labelColumns+` FROM labels
		 WHERE category_id = $1 AND parent_id IS NULL AND NOT deleted ORDER BY name`,
		categoryID)
	if err != nil {
		return nil, fmt.Errorf("list root labels: %w", err)
	}
	return scanLabels(rows)
}

// ListChildren returns the live direct children of a label ordered by name.
func (s *LabelStore) ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Label, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE parent_id = $1 AND NOT deleted ORDER BY name`,
		parentID)
	if err != nil {
		return nil, fmt.Errorf("list label children: %w", err)
	}
	return scanLabels(rows)
}

// Search returns live labels whose name contains the query, case
// insensitively, ordered by name for a deterministic result.
func (s *LabelStore) Search(ctx context.Context, query string) ([]models.Label, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+labelColumns+` FROM labels
		 WHERE name ILIKE '%' || $1 || '%' AND NOT deleted ORDER BY name`,
		query)
	if err != nil {
		return nil, fmt.Errorf("search labels: %w", err)
	}
	return scanLabels(rows)
}

// ChildIDs returns the IDs of all live direct children of any of the
// given labels. One batched query per tree level keeps the descendant
// walk iterative regardless of depth.
func (s *LabelStore) ChildIDs(ctx context.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM labels WHERE parent_id = ANY($1::uuid[]) AND NOT deleted`, uuidStrings(parentIDs))
	if err != nil {
		return nil, fmt.Errorf("label child ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan child id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// NameExists reports whether a live sibling (same category, same parent,
// roots counting as siblings of each other) already uses the name, case
// insensitively. exclude skips the label's own row on rename checks.
func (s *LabelStore) NameExists(ctx context.Context, categoryID uuid.UUID, parentID *uuid.UUID, name string, exclude *uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM labels
			WHERE category_id = $1
			  AND parent_id IS NOT DISTINCT FROM $2
			  AND lower(name) = lower($3)
			  AND NOT deleted
			  AND ($4::uuid IS NULL OR id <> $4)
		)
	`, categoryID, parentID, name, exclude).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("label name exists: %w", err)
	}
	return exists, nil
}

// SlugExists reports whether any label, deleted or not, holds the slug.
func (s *LabelStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM labels WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("label slug exists: %w", err)
	}
	return exists, nil
}

// Update modifies the mutable fields of a label. The category is
// immutable and deliberately absent from the SET list; ErrNameTaken is
// returned when the rename collides under the sibling index.
func (s *LabelStore) Update(ctx context.Context, l *models.Label) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE labels SET
			name = $1, description = $2, parent_id = $3, active = $4, updated_at = NOW()
		WHERE id = $5 AND NOT deleted
	`, l.Name, l.Description, l.ParentID, l.Active, l.ID)
	if err != nil {
		if err = translateUnique(err); err == ErrNameTaken {
			return err
		}
		return fmt.Errorf("update label: %w", err)
	}
	return nil
}

// SoftDelete marks a label deleted if it has no live children. The child
// check and the flag flip happen in one statement, so a concurrent child
// insert and this delete cannot both succeed. Returns (deleted, hadChildren).
func (s *LabelStore) SoftDelete(ctx context.Context, id uuid.UUID) (bool, bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE labels SET deleted = TRUE, active = FALSE, updated_at = NOW()
		WHERE id = $1 AND NOT deleted
		  AND NOT EXISTS (
			SELECT 1 FROM labels c WHERE c.parent_id = $1 AND NOT c.deleted
		  )
	`, id)
	if err != nil {
		return false, false, fmt.Errorf("delete label: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, false, fmt.Errorf("delete label rows: %w", err)
	}
	if n > 0 {
		return true, false, nil
	}

	var children int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM labels WHERE parent_id = $1 AND NOT deleted`, id).Scan(&children)
	if err != nil {
		return false, false, fmt.Errorf("delete label recheck: %w", err)
	}
	return false, children > 0, nil
}
