package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsValidate(t *testing.T) {
	require.NoError(t, ValidateFS(Embedded, embeddedDir))
}

func TestOnDiskMigrationsMatchEmbedded(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	require.NoError(t, err)
	embedded, err := Embedded.ReadDir(embeddedDir)
	require.NoError(t, err)
	require.Equal(t, len(entries), len(embedded))
}

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_inventory_units.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_units",
		"CHECK (units > 0)",
		"CHECK (expiry_date > donation_date)",
		"status IN ('available', 'reserved', 'expired', 'discarded')",
		"blood_type IN ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')",
		"FOREIGN KEY (donor_id) REFERENCES donors(id) ON DELETE SET NULL",
		"CREATE INDEX IF NOT EXISTS idx_inventory_units_type_status",
		"DROP TABLE IF EXISTS inventory_units",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestTransactionsMigrationGuardsFee(t *testing.T) {
	content := readMigration(t, "*_create_transactions.sql")
	require.Contains(t, content, "processing_fee NUMERIC(12,2) NOT NULL DEFAULT 0")
	require.Contains(t, content, "CHECK (processing_fee >= 0)")
	require.Contains(t, content, "type IN ('donation', 'transfusion', 'transfer_in', 'transfer_out')")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Donor Notes!", now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20260302083000_add_donor_notes.sql"), path)
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "Add Donor Notes!", now)
	require.Error(t, err, "same version must not be overwritten")

	_, err = CreateSQLMigration(dir, "!!!", now)
	require.Error(t, err)
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, ValidateDir(dir))
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no migration matching %s", pattern)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}
