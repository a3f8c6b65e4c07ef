package postgres

import (
	"os"
	"testing"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/store"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/store/storetest"
)

// Runs against a real database when TRIP_BACKEND_TEST_POSTGRES_DSN is set;
// the schema from schema.sql must already be applied.
func TestPostgresStore_Compliance(t *testing.T) {
	dsn := os.Getenv("TRIP_BACKEND_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TRIP_BACKEND_TEST_POSTGRES_DSN not set")
	}

	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	storetest.Run(t, func(t *testing.T) store.Store { return NewWithDB(db) })
}
