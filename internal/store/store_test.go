// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"preplab/internal/database"
	"preplab/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "preplab")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "preplab")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testCategory inserts a throwaway category and registers cleanup of it
// and everything created inside it.
func testCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()

	suffix := uuid.NewString()[:8]
	cat, err := NewCategoryStore(db).Insert(context.Background(), &models.Category{
		Name:   "Test Category " + suffix,
		Code:   "TEST_" + suffix,
		Slug:   "test-category-" + suffix,
		Active: true,
	})
	if err != nil {
		t.Fatalf("insert test category: %v", err)
	}

	t.Cleanup(func() {
		db.Exec(`DELETE FROM content_labels WHERE label_id IN (SELECT id FROM labels WHERE category_id = $1)`, cat.ID)
		db.Exec(`DELETE FROM labels WHERE category_id = $1`, cat.ID)
		db.Exec(`DELETE FROM categories WHERE id = $1`, cat.ID)
	})
	return cat
}

// mustInsertLabel inserts a label or fails the test.
func mustInsertLabel(t *testing.T, db *sql.DB, categoryID uuid.UUID, parentID *uuid.UUID, name string) *models.Label {
	t.Helper()

	l, err := NewLabelStore(db).Insert(context.Background(), &models.Label{
		CategoryID: categoryID,
		ParentID:   parentID,
		Name:       name,
		Slug:       "test-" + uuid.NewString(),
		Active:     true,
	})
	if err != nil {
		t.Fatalf("insert label %q: %v", name, err)
	}
	return l
}

// cleanContent removes test content by slug. Call in t.Cleanup().
func cleanContent(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM content_labels WHERE content_id IN (SELECT id FROM content WHERE slug = $1)", slug)
		db.Exec("DELETE FROM content WHERE slug = $1", slug)
	}
}
