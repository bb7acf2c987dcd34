package integration

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"referral_rewards/internal/repository"
	"referral_rewards/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".sql") {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(migDir, name))
		require.NoError(t, err)
		_, err = db.Exec(context.Background(), string(b))
		require.NoErrorf(t, err, "apply migration %s", name)
	}
}

// setup connects to DATABASE_URL, migrates and returns a service on top of it.
// Tests share the database, so every test uses emails from uniqueEmail.
func setup(t *testing.T) (*pgxpool.Pool, *service.ReferralService) {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db, service.NewReferralService(repository.NewStore(db), service.Options{})
}

func uniqueEmail(name string) string {
	return name + "-" + uuid.NewString()[:8] + "@example.com"
}
