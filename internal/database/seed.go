package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"preplab/internal/slug"
)

// Seed populates the database with initial development data: the three
// stock categories and a small topic tree so the API has something to
// serve. It is a no-op when categories already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	categories := []struct {
		name, code, description string
	}{
		{"Difficulty Level", "DIFFICULTY", "How hard a question is."},
		{"Topic", "TOPIC", "Subject-matter taxonomy for all content."},
		{"Company", "COMPANY", "Companies known to ask a question."},
	}

	ids := make(map[string]string, len(categories))
	for _, c := range categories {
		var id string
		err := db.QueryRow(`
			INSERT INTO categories (name, code, slug, description)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, c.name, c.code, slug.Generate(c.name), c.description).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.code, err)
		}
		ids[c.code] = id
	}

	// Difficulty levels are a flat set of roots.
	for _, name := range []string{"Easy", "Medium", "Hard"} {
		if _, err := db.Exec(`
			INSERT INTO labels (category_id, name, slug)
			VALUES ($1, $2, $3)
		`, ids["DIFFICULTY"], name, slug.Generate(name)); err != nil {
			return fmt.Errorf("seed insert difficulty %s: %w", name, err)
		}
	}

	// A small topic subtree: Algorithms -> Graphs -> Shortest Path.
	var algorithmsID, graphsID string
	if err := db.QueryRow(`
		INSERT INTO labels (category_id, name, slug)
		VALUES ($1, 'Algorithms', 'algorithms')
		RETURNING id
	`, ids["TOPIC"]).Scan(&algorithmsID); err != nil {
		return fmt.Errorf("seed insert algorithms: %w", err)
	}
	if err := db.QueryRow(`
		INSERT INTO labels (category_id, parent_id, name, slug)
		VALUES ($1, $2, 'Graphs', 'graphs')
		RETURNING id
	`, ids["TOPIC"], algorithmsID).Scan(&graphsID); err != nil {
		return fmt.Errorf("seed insert graphs: %w", err)
	}
	if _, err := db.Exec(`
		INSERT INTO labels (category_id, parent_id, name, slug)
		VALUES ($1, $2, 'Shortest Path', 'shortest-path')
	`, ids["TOPIC"], graphsID); err != nil {
		return fmt.Errorf("seed insert shortest path: %w", err)
	}

	slog.Info("database seeded",
		"categories", len(categories),
		"labels", 6,
	)

	return nil
}
