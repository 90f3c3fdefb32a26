package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"adaptercore/internal/infra/checkpoint/postgres/testutil"
	sharedtest "adaptercore/testutil"
)

func newStubStore(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(driverName, _ string) (*sql.DB, error) {
		if driverName != defaultDriver {
			t.Fatalf("expected pgx driver, got %s", driverName)
		}
		return db, nil
	})
	defer restore()
	s, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, conn
}

func TestNewEnsuresTable(t *testing.T) {
	_, conn := newStubStore(t)
	if len(conn.Execs) == 0 || !strings.Contains(conn.Execs[0], "CREATE TABLE IF NOT EXISTS checkpoints") {
		t.Fatalf("expected checkpoints ddl, got %v", conn.Execs)
	}
}

func TestStoreBehaviour(t *testing.T) {
	s, _ := newStubStore(t)
	sharedtest.ExerciseTransport(t, s)
}

func TestPutUpserts(t *testing.T) {
	s, conn := newStubStore(t)
	ctx := context.Background()
	for _, blob := range []string{"one", "two"} {
		if _, err := s.Put(ctx, "k", []byte(blob)); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	rows := conn.Rows("checkpoints")
	if len(rows) != 1 || string(rows[0]["payload"].([]byte)) != "two" {
		t.Fatalf("expected a single upserted row, got %v", rows)
	}
}

func TestNewErrors(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return nil, sql.ErrConnDone })
	if _, err := New(context.Background(), "postgres://x"); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected open error, got %v", err)
	}
	restore()

	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore = OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := New(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "ping") {
		t.Fatalf("expected ping error, got %v", err)
	}
	conn.FailPing = false
	conn.FailExec = true
	if _, err := New(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "ensure checkpoints table") {
		t.Fatalf("expected ddl error, got %v", err)
	}
}

func TestListSurfacesQueryErrors(t *testing.T) {
	s, conn := newStubStore(t)
	conn.FailTables = map[string]bool{"checkpoints": true}
	if _, err := s.List(context.Background(), ""); err == nil {
		t.Fatalf("expected list error")
	}
}
