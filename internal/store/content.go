// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"preplab/internal/models"
)

// ContentStore handles catalog items and their label associations. The
// label edge queries double as the content-label index consumed by the
// hierarchical query service.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = `id, type, title, slug, body, status, active, deleted, published_at, created_at, updated_at`

// scanContent scans a row into a ContentItem struct.
func scanContent(scanner interface{ Scan(...any) error }) (*models.ContentItem, error) {
	var c models.ContentItem
	err := scanner.Scan(
		&c.ID, &c.Type, &c.Title, &c.Slug, &c.Body, &c.Status,
		&c.Active, &c.Deleted, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new content item and returns it with the generated ID.
func (s *ContentStore) Create(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error) {
	// If publishing, set the published_at timestamp.
	if c.Status == models.ContentStatusPublished && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO content (type, title, slug, body, status, active, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+contentColumns,
		c.Type, c.Title, c.Slug, c.Body, c.Status, c.Active, c.PublishedAt,
	)
	result, err := scanContent(row)
	if err != nil {
		if err = translateUnique(err); err == ErrSlugTaken {
			return nil, err
		}
		return nil, fmt.Errorf("create content: %w", err)
	}
	return result, nil
}

// FindByID retrieves a live content item by its UUID. Returns nil if not found.
func (s *ContentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM content WHERE id = $1 AND NOT deleted`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a live content item by slug. Returns nil if not found.
func (s *ContentStore) FindBySlug(ctx context.Context, slug string) (*models.ContentItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM content WHERE slug = $1 AND NOT deleted`, slug)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by slug: %w", err)
	}
	return c, nil
}

// ListByType returns all live content items of the given type, newest first.
func (s *ContentStore) ListByType(ctx context.Context, contentType models.ContentType) ([]models.ContentItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM content
		 WHERE type = $1 AND NOT deleted ORDER BY created_at DESC`,
		contentType)
	if err != nil {
		return nil, fmt.Errorf("list content by type: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Update modifies an existing content item.
func (s *ContentStore) Update(ctx context.Context, c *models.ContentItem) error {
	// If transitioning to published and no published_at set, set it now.
	if c.Status == models.ContentStatusPublished && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE content SET
			title = $1, body = $2, status = $3, active = $4,
			published_at = $5, updated_at = NOW()
		WHERE id = $6 AND NOT deleted
	`, c.Title, c.Body, c.Status, c.Active, c.PublishedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// SoftDelete marks a content item deleted. Its label edges stay in place
// for referential history; live queries filter on the content row.
func (s *ContentStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE content SET deleted = TRUE, active = FALSE, updated_at = NOW()
		WHERE id = $1 AND NOT deleted
	`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// SlugExists reports whether any content item, deleted or not, holds the slug.
func (s *ContentStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM content WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("content slug exists: %w", err)
	}
	return exists, nil
}

// SetLabels replaces a content item's label edges in one transaction.
func (s *ContentStore) SetLabels(ctx context.Context, contentID uuid.UUID, edges []models.ContentLabel) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM content_labels WHERE content_id = $1`, contentID); err != nil {
		return fmt.Errorf("clear content labels: %w", err)
	}

	for _, e := range edges {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO content_labels (content_id, label_id, is_primary, position)
			VALUES ($1, $2, $3, $4)
		`, contentID, e.LabelID, e.Primary, e.Position); err != nil {
			return fmt.Errorf("insert content label %s: %w", e.LabelID, err)
		}
	}

	return tx.Commit()
}

// LabelsForItem returns a content item's label edges ordered by position.
func (s *ContentStore) LabelsForItem(ctx context.Context, contentID uuid.UUID) ([]models.ContentLabel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cl.content_id, cl.label_id, cl.is_primary, cl.position
		FROM content_labels cl
		JOIN labels l ON l.id = cl.label_id AND NOT l.deleted
		WHERE cl.content_id = $1
		ORDER BY cl.position, cl.label_id
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("labels for item: %w", err)
	}
	defer rows.Close()

	var edges []models.ContentLabel
	for rows.Next() {
		var e models.ContentLabel
		if err := rows.Scan(&e.ContentID, &e.LabelID, &e.Primary, &e.Position); err != nil {
			return nil, fmt.Errorf("scan content label: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// CountForLabels returns the number of distinct live, active content
// items tagged with any of the given labels. An item tagged with several
// of them counts once.
func (s *ContentStore) CountForLabels(ctx context.Context, labelIDs []uuid.UUID) (int, error) {
	if len(labelIDs) == 0 {
		return 0, nil
	}
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT c.id)
		FROM content c
		JOIN content_labels cl ON cl.content_id = c.id
		WHERE cl.label_id = ANY($1::uuid[]) AND c.active AND NOT c.deleted
	`, uuidStrings(labelIDs)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count for labels: %w", err)
	}
	return count, nil
}

// ItemIDsForLabels returns the distinct IDs of live, active content
// items tagged with any of the given labels.
func (s *ContentStore) ItemIDsForLabels(ctx context.Context, labelIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(labelIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT c.id
		FROM content c
		JOIN content_labels cl ON cl.content_id = c.id
		WHERE cl.label_id = ANY($1::uuid[]) AND c.active AND NOT c.deleted
	`, uuidStrings(labelIDs))
	if err != nil {
		return nil, fmt.Errorf("item ids for labels: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan content id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListForLabels returns summaries of the distinct live, active content
// items tagged with any of the given labels, ordered by title.
func (s *ContentStore) ListForLabels(ctx context.Context, labelIDs []uuid.UUID) ([]models.ContentSummary, error) {
	if len(labelIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT c.id, c.type, c.title, c.slug
		FROM content c
		JOIN content_labels cl ON cl.content_id = c.id
		WHERE cl.label_id = ANY($1::uuid[]) AND c.active AND NOT c.deleted
		ORDER BY c.title, c.id
	`, uuidStrings(labelIDs))
	if err != nil {
		return nil, fmt.Errorf("list for labels: %w", err)
	}
	return scanSummaries(rows)
}

// SampleForLabels returns up to n distinct items tagged with any of the
// given labels, drawn uniformly from the flattened union set.
func (s *ContentStore) SampleForLabels(ctx context.Context, labelIDs []uuid.UUID, n int) ([]models.ContentSummary, error) {
	if len(labelIDs) == 0 || n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, slug FROM (
			SELECT DISTINCT c.id, c.type, c.title, c.slug
			FROM content c
			JOIN content_labels cl ON cl.content_id = c.id
			WHERE cl.label_id = ANY($1::uuid[]) AND c.active AND NOT c.deleted
		) candidates
		ORDER BY random()
		LIMIT $2
	`, uuidStrings(labelIDs), n)
	if err != nil {
		return nil, fmt.Errorf("sample for labels: %w", err)
	}
	return scanSummaries(rows)
}

// scanSummaries drains a (id, type, title, slug) result set.
func scanSummaries(rows *sql.Rows) ([]models.ContentSummary, error) {
	defer rows.Close()
	var items []models.ContentSummary
	for rows.Next() {
		var c models.ContentSummary
		if err := rows.Scan(&c.ID, &c.Type, &c.Title, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan content summary: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
