// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service holds the business logic of the catalog: category and
// label lifecycle with the tree invariants, hierarchical aggregation
// queries, and the navigation facade. Services talk to storage through
// the small interfaces declared here, so tests can run them against
// in-memory fakes.
package service

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation. Every failure a service returns
// carries exactly one kind; handlers map kinds to HTTP status codes.
type Kind int

const (
	// KindNotFound: a referenced identifier does not resolve to a live record.
	KindNotFound Kind = iota + 1
	// KindDuplicate: code, slug or sibling-name uniqueness was violated.
	KindDuplicate
	// KindCircular: the proposed parent is the node itself or one of its
	// descendants.
	KindCircular
	// KindCategoryMismatch: parent and child specify different categories.
	KindCategoryMismatch
	// KindHasChildren: delete attempted on a record with live children.
	KindHasChildren
	// KindInvalid: malformed input, e.g. a blank required field.
	KindInvalid
)

// String names the kind for logs and error payloads.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindCircular:
		return "circular_reference"
	case KindCategoryMismatch:
		return "category_mismatch"
	case KindHasChildren:
		return "has_children"
	case KindInvalid:
		return "invalid_argument"
	}
	return "unknown"
}

// Error is a typed operation failure. Resource names what the failure is
// about ("category", "label", "parent", "content").
type Error struct {
	Kind     Kind
	Resource string
	Message  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Resource == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Resource, e.Message)
}

// KindOf extracts the failure kind from err. ok is false for plain
// infrastructure errors, which callers treat as internal.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func notFound(resource string) error {
	return &Error{Kind: KindNotFound, Resource: resource, Message: "not found"}
}

func duplicate(resource, message string) error {
	return &Error{Kind: KindDuplicate, Resource: resource, Message: message}
}

func circular(message string) error {
	return &Error{Kind: KindCircular, Resource: "label", Message: message}
}

func categoryMismatch() error {
	return &Error{Kind: KindCategoryMismatch, Resource: "label", Message: "parent belongs to a different category"}
}

func hasChildren(resource, message string) error {
	return &Error{Kind: KindHasChildren, Resource: resource, Message: message}
}

func invalid(message string) error {
	return &Error{Kind: KindInvalid, Message: message}
}
