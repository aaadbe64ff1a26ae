package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/portal-harnasi/backend/pkg/migrate"
)

func TestMigrationsDirIsWellFormed(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}

func TestUsersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_users.sql")

	checks := []string{
		"CREATE TABLE users",
		"CHECK (role IN ('Admin', 'Harnas', 'Kursant'))",
		"DEFAULT 'Kursant'",
		"CREATE UNIQUE INDEX users_email_lower_uidx ON users (LOWER(email))",
		"DROP TABLE IF EXISTS users",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestActivityLogsMigrationHasNoUserFK(t *testing.T) {
	content := readMigration(t, "*_create_activity_logs.sql")

	if strings.Contains(content, "REFERENCES users") {
		t.Error("audit rows must not be tied to the users table")
	}
	checks := []string{
		"CREATE TABLE activity_logs",
		"activity_logs_user_id_idx",
		"activity_logs_created_at_idx",
		"DROP TABLE IF EXISTS activity_logs",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
