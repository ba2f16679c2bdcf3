package pg

import (
	"context"
	"io/fs"
	"sort"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	migrations "github.com/max31337/salesoptimizer-sub001/migrations/postgres"
)

// fakeMigrationConn registra todo lo que el runner ejecuta, simulando
// la conexión dedicada que sostiene el advisory lock.
type fakeMigrationConn struct {
	stmts   []string
	inserts []string
	applied bool // respuesta del SELECT EXISTS
}

func (f *fakeMigrationConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.stmts = append(f.stmts, sql)
	if strings.HasPrefix(sql, "INSERT INTO schema_migrations") {
		f.inserts = append(f.inserts, args[0].(string))
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeMigrationConn) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	f.stmts = append(f.stmts, sql)
	return fakeRow{exists: f.applied}
}

type fakeRow struct{ exists bool }

func (r fakeRow) Scan(dest ...any) error {
	if b, ok := dest[0].(*bool); ok {
		*b = r.exists
	}
	return nil
}

func embeddedMigrationNames(t *testing.T) []string {
	t.Helper()
	entries, err := fs.ReadDir(migrations.FS, migrations.Dir)
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func TestApplyMigrations_RunsEverythingOnOneConn(t *testing.T) {
	conn := &fakeMigrationConn{}
	names := embeddedMigrationNames(t)

	applied, err := applyMigrations(context.Background(), conn, zap.NewNop())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if applied != len(names) {
		t.Fatalf("applied = %d, want %d", applied, len(names))
	}

	// Todo pasó por la misma conexión, empezando por la tabla de control
	if len(conn.stmts) == 0 || !strings.Contains(conn.stmts[0], "CREATE TABLE IF NOT EXISTS schema_migrations") {
		t.Fatalf("first statement must ensure schema_migrations, got %q", conn.stmts[0])
	}

	// Y los scripts quedaron registrados en orden lexicográfico
	if len(conn.inserts) != len(names) {
		t.Fatalf("registered = %d, want %d", len(conn.inserts), len(names))
	}
	for i, name := range names {
		if conn.inserts[i] != name {
			t.Fatalf("insert[%d] = %q, want %q", i, conn.inserts[i], name)
		}
	}
}

func TestApplyMigrations_SkipsAlreadyApplied(t *testing.T) {
	conn := &fakeMigrationConn{applied: true}

	applied, err := applyMigrations(context.Background(), conn, zap.NewNop())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if applied != 0 {
		t.Fatalf("applied = %d, want 0", applied)
	}
	if len(conn.inserts) != 0 {
		t.Fatalf("nothing should be registered, got %v", conn.inserts)
	}
}
