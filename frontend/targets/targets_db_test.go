package targets

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"prodmetas/infrastructure/sqlite"
)

func openTargetsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "targets-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	err = db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO sectors (id, name, sort_order) VALUES (1, 'Usinagem', 1)`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO machines (id, sector_id, code, name_display, is_active, sort_order)
VALUES (1, 1, 'TCN-12', 'Torno CNC 12', 1, 1), (2, 1, 'TORNO-5', 'Torno 5', 1, 2)`)
		return err
	})
	if err != nil {
		t.Fatalf("seed machines: %v", err)
	}
	return db
}

func TestUpsertDefaultOverwrites(t *testing.T) {
	db := openTargetsTestDB(t)
	ctx := context.Background()

	if err := UpsertDefault(ctx, db, 1, "2025-08-01", 8); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := UpsertDefault(ctx, db, 1, "2025-08-01", 7.5); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	rows, err := FetchDefaults(ctx, db, "2025-08-01")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 1 || rows[0].DailyTarget != 7.5 {
		t.Errorf("defaults = %+v, want single row at 7.5", rows)
	}
}

func TestDailyOverrideLifecycle(t *testing.T) {
	db := openTargetsTestDB(t)
	ctx := context.Background()

	if err := UpsertDaily(ctx, db, 1, "2025-08-02", 5); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := UpsertDaily(ctx, db, 1, "2025-08-02", 0); err != nil {
		t.Fatalf("zero upsert: %v", err)
	}

	rows, err := FetchDaily(ctx, db, "2025-08-01", "2025-08-31")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 1 || rows[0].TargetHours != 0 {
		t.Errorf("overrides = %+v, want single zero override", rows)
	}

	if err := DeleteDaily(ctx, db, 1, "2025-08-02"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, err = FetchDaily(ctx, db, "2025-08-01", "2025-08-31")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("override not deleted: %+v", rows)
	}
}

func TestZeroDayForMachines(t *testing.T) {
	db := openTargetsTestDB(t)
	ctx := context.Background()

	if err := ZeroDayForMachines(ctx, db, "2025-08-15", []int64{1, 2}); err != nil {
		t.Fatalf("zero day: %v", err)
	}
	rows, err := FetchDaily(ctx, db, "2025-08-15", "2025-08-15")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("overrides = %d, want 2", len(rows))
	}
	for _, r := range rows {
		if r.TargetHours != 0 {
			t.Errorf("machine %d = %v, want 0", r.MachineID, r.TargetHours)
		}
	}
}

func TestCopyDefaults(t *testing.T) {
	db := openTargetsTestDB(t)
	ctx := context.Background()

	if err := UpsertDefault(ctx, db, 1, "2025-08-01", 8); err != nil {
		t.Fatal(err)
	}
	if err := UpsertDefault(ctx, db, 2, "2025-08-01", 6); err != nil {
		t.Fatal(err)
	}
	// Pre-existing value in the target month gets overwritten.
	if err := UpsertDefault(ctx, db, 1, "2025-09-01", 1); err != nil {
		t.Fatal(err)
	}

	n, err := CopyDefaults(ctx, db, "2025-08-01", "2025-09-01")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if n != 2 {
		t.Errorf("copied = %d, want 2", n)
	}

	rows, err := FetchDefaults(ctx, db, "2025-09-01")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	byMachine := map[int64]float64{}
	for _, r := range rows {
		byMachine[r.MachineID] = r.DailyTarget
	}
	if byMachine[1] != 8 || byMachine[2] != 6 {
		t.Errorf("september defaults = %v, want copied 8 and 6", byMachine)
	}

	if _, err := CopyDefaults(ctx, db, "2025-08-01", "2025-08-01"); err == nil {
		t.Error("copying a month onto itself must fail")
	}
	if n, err := CopyDefaults(ctx, db, "2025-01-01", "2025-02-01"); err != nil || n != 0 {
		t.Errorf("empty source: n=%d err=%v, want 0/nil", n, err)
	}
}
