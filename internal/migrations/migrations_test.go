package migrations_test

import (
	"context"
	"testing"

	"github.com/playperu/flightgame/internal/database"
	"github.com/playperu/flightgame/internal/migrations"
)

func TestMigrations(t *testing.T) {
	db, err := database.Open(context.Background(), database.Memory)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	n, err := migrations.Run(context.Background(), db)
	if err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	if n != 3 {
		t.Errorf("applied %d migrations, want 3", n)
	}

	for _, table := range []string{"airports", "player_stats"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}

	// Every goal airport must be seeded.
	for _, ident := range []string{"EFHK", "EFIV", "EFOU", "EFKS", "EFKT", "EFKE"} {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM airports WHERE ident = ?", ident).Scan(&n); err != nil {
			t.Fatalf("counting %s: %v", ident, err)
		}
		if n != 1 {
			t.Errorf("airport %s: %d rows, want 1", ident, n)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := database.Open(context.Background(), database.Memory)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if _, err := migrations.Run(context.Background(), db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	n, err := migrations.Run(context.Background(), db)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n != 0 {
		t.Errorf("second run applied %d migrations, want 0", n)
	}
}
