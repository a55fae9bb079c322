// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the PostgreSQL persistence layer. Each entity
// gets its own store struct over a shared *sql.DB. Lookups return
// (nil, nil) when the row does not exist; uniqueness violations from the
// database are translated into the sentinel errors below so callers can
// react without parsing driver errors.
package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrSlugTaken means the slug unique index rejected an insert or
	// update. The caller retries with the next numeric suffix.
	ErrSlugTaken = errors.New("slug already taken")

	// ErrNameTaken means the sibling-name unique index rejected a write:
	// another live label with the same parent already has this name.
	ErrNameTaken = errors.New("name already taken among siblings")

	// ErrCodeTaken means another live category already carries this code.
	ErrCodeTaken = errors.New("category code already taken")
)

// uniqueViolation is the PostgreSQL error code for a unique constraint.
const uniqueViolation = "23505"

// translateUnique maps a unique-violation error to the matching sentinel
// based on the constraint that fired. Other errors pass through unchanged.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "uq_labels_slug", "uq_categories_slug", "uq_content_slug":
		return ErrSlugTaken
	case "uq_labels_sibling_name":
		return ErrNameTaken
	case "uq_categories_code":
		return ErrCodeTaken
	}
	return err
}

// uuidStrings renders IDs for a $n::uuid[] parameter. The pgx stdlib
// driver passes []string through as a text array.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
