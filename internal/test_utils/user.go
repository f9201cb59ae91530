package test_utils

import (
	"database/sql"
	"testing"
)

// SeedUser inserts a user row and returns its id. Repo tests need a real
// users row because budgets and timesheets reference it.
func SeedUser(t *testing.T, db *sql.DB, uid string, email string) int {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO users (uid, email, password_hash, first_name, last_name, hourly_rate_cents)
			VALUES (?, ?, 'x', 'Test', 'User', 5000)`,
		uid, email,
	)
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read seeded user id: %v", err)
	}
	return int(id)
}
