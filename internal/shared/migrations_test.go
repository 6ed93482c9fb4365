package shared

import (
	"testing"
)

func TestMigrations(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(migrations) == 0 {
			t.Fatal("expected embedded migrations to be found")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i-1].Version >= migrations[i].Version {
				t.Error("expected migrations sorted by version")
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration %d missing up script", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration %d missing down script", m.Version)
			}
		}
	})

	t.Run("RunMigrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected migrations to apply, got %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM audios").Scan(&count); err != nil {
			t.Fatalf("expected audios table to exist: %v", err)
		}
		if count != 0 {
			t.Errorf("expected empty audios table, got %d rows", count)
		}

		// Idempotent on a second run
		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected re-run to be a no-op, got %v", err)
		}
	})

	t.Run("RollbackMigration", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to apply migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("expected rollback to succeed, got %v", err)
		}

		if err := db.QueryRow("SELECT COUNT(*) FROM audios").Scan(new(int)); err == nil {
			t.Error("expected audios table to be dropped")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when nothing left to roll back")
		}
	})
}
