// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures shared between the stores,
// services, and HTTP handlers of the catalog backend.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a named, coded grouping that owns a set of labels,
// e.g. "Difficulty", "Topic", "Company". The code is uppercase, unique
// among non-deleted categories, and immutable after creation. The slug
// is unique across all categories, deleted ones included, so old links
// never start pointing at a different category.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	Deleted     bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// LabelCount is populated by list queries; it counts non-deleted labels.
	LabelCount int `json:"label_count"`
}
