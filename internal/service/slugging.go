// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"preplab/internal/slug"
	"preplab/internal/store"
)

// slugAttempts bounds the retry loop when concurrent creates race for
// the same base slug. The existence probe is only an optimization; the
// unique index decides, and each lost race advances to the next suffix.
const slugAttempts = 5

// slugBase derives the slug base for a name, falling back to a random
// token when the name slugs down to nothing (all punctuation, emoji, ...).
func slugBase(name string) string {
	if base := slug.Generate(name); base != "" {
		return base
	}
	return uuid.NewString()[:8]
}

// createWithSlug picks a free variant of base and runs insert with it,
// retrying with the next numeric suffix whenever the insert loses a slug
// race. Any other insert outcome, success or failure, is returned as is.
func createWithSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error), insert func(context.Context, string) error) error {
	failed := make(map[string]bool)

	for attempt := 0; attempt < slugAttempts; attempt++ {
		var probeErr error
		candidate := slug.Unique(base, func(s string) bool {
			if probeErr != nil {
				return false
			}
			if failed[s] {
				return true
			}
			taken, err := exists(ctx, s)
			if err != nil {
				probeErr = err
			}
			return taken
		})
		if probeErr != nil {
			return probeErr
		}

		err := insert(ctx, candidate)
		if !errors.Is(err, store.ErrSlugTaken) {
			return err
		}
		// Lost the race: a concurrent create claimed the candidate
		// between the probe and the insert.
		failed[candidate] = true
	}

	return duplicate("slug", "could not allocate a unique slug")
}
