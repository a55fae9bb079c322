// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentType distinguishes the kinds of catalog items.
type ContentType string

const (
	ContentTypeQuestion     ContentType = "question"
	ContentTypeMCQ          ContentType = "mcq"
	ContentTypeArticle      ContentType = "article"
	ContentTypeSystemDesign ContentType = "system_design"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeQuestion, ContentTypeMCQ, ContentTypeArticle, ContentTypeSystemDesign:
		return true
	}
	return false
}

// ContentStatus is the publication state of a catalog item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
)

// ContentItem is a single catalog entry: a coding question, a multiple
// choice question, an article, or a system-design write-up. Labels are
// attached through the content_labels edge table, not embedded here.
type ContentItem struct {
	ID          uuid.UUID     `json:"id"`
	Type        ContentType   `json:"type"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Body        string        `json:"body"`
	Status      ContentStatus `json:"status"`
	Active      bool          `json:"active"`
	Deleted     bool          `json:"-"`
	PublishedAt *time.Time    `json:"published_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ContentSummary is the compact item shape returned by hierarchical
// listing and sampling queries.
type ContentSummary struct {
	ID    uuid.UUID   `json:"id"`
	Type  ContentType `json:"type"`
	Title string      `json:"title"`
	Slug  string      `json:"slug"`
}

// ContentLabel is the many-to-many edge between a content item and a
// label. At most one edge per item is flagged primary; Position orders
// an item's labels for display.
type ContentLabel struct {
	ContentID uuid.UUID `json:"content_id"`
	LabelID   uuid.UUID `json:"label_id"`
	Primary   bool      `json:"primary"`
	Position  int       `json:"position"`
}
