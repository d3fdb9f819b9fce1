package postgres

import (
	"context"
	"os"
	"testing"

	"expensetracker/internal/storage"
	"expensetracker/internal/storage/storagetest"
)

func TestMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/db":   "pgx5://u:p@localhost:5432/db",
		"postgresql://u:p@localhost:5432/db": "pgx5://u:p@localhost:5432/db",
		"pgx5://u:p@localhost:5432/db":       "pgx5://u:p@localhost:5432/db",
	}
	for in, want := range cases {
		if got := migrateURL(in); got != want {
			t.Errorf("migrateURL(%q) = %q, want %q", in, got, want)
		}
	}
}

// Runs only when POSTGRES_TEST_URL points to a disposable database.
func TestPostgresRepositoryContract(t *testing.T) {
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	storagetest.Run(t, func(t *testing.T) storage.ExpenseStore {
		ctx := context.Background()
		repo, err := NewRepository(ctx, url)
		if err != nil {
			t.Fatalf("NewRepository: %v", err)
		}
		if _, err := repo.pool.Exec(ctx, `TRUNCATE expenses`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		t.Cleanup(func() { _ = repo.Close() })
		return repo
	})
}
