//go:build integration

package testhelper

import (
	"context"
	"testing"

	"github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres"
)

func TestSetupTestDB_SchemaAndSeed(t *testing.T) {
	pool := SetupTestDB(t)
	ctx := context.Background()

	for _, table := range []string{"accounts", "tasks", "reports", "verifications", "uploads"} {
		var exists bool
		err := pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, "public."+table).Scan(&exists)
		if err != nil || !exists {
			t.Fatalf("table %s missing after migrate (err=%v)", table, err)
		}
	}

	acc := SeedAccount(t, pool)
	var email string
	if err := pool.QueryRow(ctx, `SELECT email FROM accounts WHERE id = $1`, acc.ID).Scan(&email); err != nil {
		t.Fatalf("expected account in DB, got error: %v", err)
	}
	if email != acc.Email {
		t.Fatalf("expected email %q, got %q", acc.Email, email)
	}

	if !postgres.NewProber(pool, 0).Reachable(ctx) {
		t.Error("prober reports a live container as unreachable")
	}
}
