//go:build integration

package services

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"civiccare/internal/config"
	"civiccare/internal/database"
	"civiccare/internal/models"
	"civiccare/internal/observability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// SharedTestDBSetup provides a clean, isolated database for each integration test.
func SharedTestDBSetup(t *testing.T) *sql.DB {
	observabilityLogger := observability.NewLogger(&config.OpenTelemetryConfig{EnableLogging: false})
	dbManager := database.NewManager(observabilityLogger)

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Fatal("TEST_DATABASE_URL environment variable must be set for integration tests")
	}

	db, err := dbManager.InitDB(databaseURL)
	require.NoError(t, err)

	CleanupTestDatabase(db, t)

	return db
}

// CleanupTestDatabase truncates all mutable tables so each test starts clean.
func CleanupTestDatabase(db *sql.DB, t *testing.T) {
	ctx := context.Background()
	cleanupQueries := []string{
		"TRUNCATE TABLE sent_notifications CASCADE",
		"TRUNCATE TABLE complaints CASCADE",
		"TRUNCATE TABLE admin_users CASCADE",
		"TRUNCATE TABLE categories CASCADE",
		"TRUNCATE TABLE users CASCADE",
	}
	for _, query := range cleanupQueries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			t.Fatalf("failed to clean up test database: %v", err)
		}
	}
}

// MustCreateTestUser inserts a user directly, bypassing the service layer.
func MustCreateTestUser(t *testing.T, db *sql.DB, email, fullName string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{ID: uuid.NewString(), Email: email, FullName: fullName}
	_, err = db.Exec(
		`INSERT INTO users (id, email, full_name, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, NOW(), NOW())`,
		u.ID, u.Email, u.FullName, string(hash))
	require.NoError(t, err)
	return u
}

// MustCreateTestCategory inserts a category directly.
func MustCreateTestCategory(t *testing.T, db *sql.DB, name, department string) *models.Category {
	c := &models.Category{ID: uuid.NewString(), Name: name, Color: "#1976D2", Department: department}
	_, err := db.Exec(
		`INSERT INTO categories (id, name, color, department) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Color, c.Department)
	require.NoError(t, err)
	return c
}
