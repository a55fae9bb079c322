// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"preplab/internal/models"
)

// NodeRef is a label reference shaped for navigation UIs: identity plus
// the browse path it links to.
type NodeRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
	Link string    `json:"link"`
}

// Node is one position in the taxonomy with everything a browse page
// needs to render it: the label, its parent if any, its children, and
// its item counts with and without descendants.
type Node struct {
	Self        NodeRef   `json:"self"`
	Parent      *NodeRef  `json:"parent,omitempty"`
	Children    []NodeRef `json:"children"`
	DirectCount int       `json:"direct_count"`
	TotalCount  int       `json:"total_count"`
}

// Navigator assembles navigation nodes from the label and query
// services. Failures from either propagate unchanged.
type Navigator struct {
	labels  *LabelService
	queries *QueryService
	cats    CategoryStore
}

// NewNavigator creates a Navigator.
func NewNavigator(labels *LabelService, queries *QueryService, cats CategoryStore) *Navigator {
	return &Navigator{labels: labels, queries: queries, cats: cats}
}

// Node builds the navigation node for a label.
func (n *Navigator) Node(ctx context.Context, labelID uuid.UUID) (*Node, error) {
	l, err := n.labels.GetByID(ctx, labelID)
	if err != nil {
		return nil, err
	}
	cat, err := n.cats.FindByID(ctx, l.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, notFound("category")
	}

	node := &Node{
		Self:     nodeRef(cat.Slug, l),
		Children: []NodeRef{},
	}

	if l.ParentID != nil {
		parent, err := n.labels.GetByID(ctx, *l.ParentID)
		if err != nil {
			return nil, err
		}
		ref := nodeRef(cat.Slug, parent)
		node.Parent = &ref
	}

	children, err := n.labels.ListChildren(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	for i := range children {
		node.Children = append(node.Children, nodeRef(cat.Slug, &children[i]))
	}

	node.DirectCount, err = n.queries.CountDirect(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	node.TotalCount, err = n.queries.CountWithDescendants(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// Resolve builds the navigation node behind a browse path
// ("/taxonomy/{categorySlug}/{labelSlug}"). Slugs that do not resolve,
// or that disagree on the category, read as an unknown path.
func (n *Navigator) Resolve(ctx context.Context, categorySlug, labelSlug string) (*Node, error) {
	cat, err := n.cats.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, notFound("category")
	}
	l, err := n.labels.GetBySlug(ctx, labelSlug)
	if err != nil {
		return nil, err
	}
	if l.CategoryID != cat.ID {
		return nil, notFound("label")
	}
	return n.Node(ctx, l.ID)
}

func nodeRef(categorySlug string, l *models.Label) NodeRef {
	return NodeRef{
		ID:   l.ID,
		Name: l.Name,
		Slug: l.Slug,
		Link: fmt.Sprintf("/taxonomy/%s/%s", categorySlug, l.Slug),
	}
}
