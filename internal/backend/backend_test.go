package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"expensetracker/internal/config"
	"expensetracker/internal/core"
	"expensetracker/internal/storage/memory"
	"expensetracker/internal/storage/sqlite"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", StrictDelete: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "x.db" || !cfg.StrictDelete {
		t.Errorf("got %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"memory", Config{Type: MemoryBackend}, ""},
		{"sqlite without path", Config{Type: SQLiteBackend}, "SQLite database path"},
		{"postgres without url", Config{Type: PostgresBackend}, "Postgres URL"},
		{"unknown", Config{Type: "mongo"}, "invalid backend type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := strings.Join(GetBackendTypeStrings(), ",")
	if got != "memory,sqlite,postgres" {
		t.Errorf("got %s", got)
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, StrictDelete: true})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if _, ok := res.Store.(*memory.Store); !ok {
		t.Fatalf("store = %T, want *memory.Store", res.Store)
	}
	if res.Events {
		t.Error("events should be disabled without an AMQP URL")
	}
	if res.Cleanup != nil {
		t.Error("memory backend needs no cleanup")
	}

	err = res.Service.Delete(context.Background(), "missing")
	if err != core.ErrNotFound {
		t.Errorf("strict delete not applied, got %v", err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.db")
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if _, ok := res.Store.(*sqlite.Repository); !ok {
		t.Fatalf("store = %T, want *sqlite.Repository", res.Store)
	}
	if res.Cleanup == nil {
		t.Fatal("sqlite backend should close its database")
	}

	ctx := context.Background()
	saved, err := res.Service.Create(ctx, core.Expense{Title: "Rent", Amount: 900, Category: "Housing", Date: core.NewDate(2024, 1, 1)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := res.Service.Get(ctx, saved.ID); err != nil {
		t.Errorf("Get: %v", err)
	}
	if err := res.Cleanup(); err != nil {
		t.Errorf("Cleanup: %v", err)
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: PostgresBackend}); err == nil {
		t.Error("expected error for postgres without URL")
	}
}
