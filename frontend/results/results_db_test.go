package results

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"prodmetas/infrastructure/sqlite"
	"prodmetas/models"
)

func openResultsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "results-test.db"))
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
	return db
}

func seedResultsFixture(t *testing.T, db *sqlite.DB) {
	t.Helper()
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		stmts := []string{
			`INSERT INTO sectors (id, name, sort_order) VALUES (1, 'Usinagem', 1)`,
			`INSERT INTO machines (id, sector_id, code, name_display, is_active, sort_order)
			 VALUES (1, 1, 'TCN-12', 'Torno CNC 12', 1, 1),
			        (2, 1, 'TORNO-5', 'Torno 5', 1, 2)`,
			`INSERT INTO production_batches (id, status, ref_date, year_month, row_count, created_at)
			 VALUES ('b-ready', 'ready', '2025-08-15', '2025-08-01', 4, '2025-08-15 10:00:00'),
			        ('b-pending', 'needs_alias', '2025-08-20', '2025-08-01', 2, '2025-08-20 10:00:00')`,
			`INSERT INTO daily_machine_hours (batch_id, prod_day, machine_id, hours)
			 VALUES ('b-ready', '2025-08-14', 1, 7.5),
			        ('b-ready', '2025-08-15', 1, 8),
			        ('b-ready', '2025-08-15', 2, 6),
			        ('b-pending', '2025-08-20', 1, 99)`,
			`INSERT INTO targets_daily_defaults (machine_id, month, daily_target)
			 VALUES (1, '2025-08-01', 8), (2, '2025-08-01', 6)`,
			`INSERT INTO targets_daily (machine_id, day, target_hours)
			 VALUES (1, '2025-08-15', 4)`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
}

func TestLoadMonthOnlyCountsReadyBatches(t *testing.T) {
	db := openResultsTestDB(t)
	seedResultsFixture(t, db)

	in, hasData, err := LoadMonth(context.Background(), db, "2025-08-01", "", ModeProduction)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !hasData {
		t.Fatal("expected data for august")
	}
	if in.RefDate != "2025-08-15" {
		t.Errorf("refDate = %q, want 2025-08-15 (pending batch days must not count)", in.RefDate)
	}
	if got := in.RealByMachineDay[1]["2025-08-20"]; got != 0 {
		t.Errorf("hours from a needs_alias batch leaked in: %v", got)
	}
	if got := in.RealByMachineDay[1]["2025-08-14"]; got != 7.5 {
		t.Errorf("machine 1 on 14th = %v, want 7.5", got)
	}
	if got := in.RealByMachineDay[2]["2025-08-15"]; got != 6 {
		t.Errorf("machine 2 on 15th = %v, want 6", got)
	}
}

func TestLoadMonthTargetBook(t *testing.T) {
	db := openResultsTestDB(t)
	seedResultsFixture(t, db)

	in, _, err := LoadMonth(context.Background(), db, "2025-08-01", "", ModeProduction)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := in.Targets.Defaults[1]; got != 8 {
		t.Errorf("default machine 1 = %v, want 8", got)
	}
	// 2025-08-15 is a Friday with an override.
	if got := in.Targets.EffectiveTarget(1, "2025-08-15"); got != 4 {
		t.Errorf("effective target on override day = %v, want 4", got)
	}
	if got := in.Targets.EffectiveTarget(2, "2025-08-15"); got != 6 {
		t.Errorf("effective target without override = %v, want default 6", got)
	}
}

func TestLoadMonthEmpty(t *testing.T) {
	db := openResultsTestDB(t)
	seedResultsFixture(t, db)

	_, hasData, err := LoadMonth(context.Background(), db, "2025-07-01", "", ModeProduction)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if hasData {
		t.Error("july has no ready batch days; hasData must be false")
	}
}

func TestFetchLatestReadyBatch(t *testing.T) {
	db := openResultsTestDB(t)

	if _, ok, err := FetchLatestReadyBatch(context.Background(), db); err != nil || ok {
		t.Fatalf("empty db: ok=%v err=%v, want false/nil", ok, err)
	}

	seedResultsFixture(t, db)
	batch, ok, err := FetchLatestReadyBatch(context.Background(), db)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !ok || batch.ID != "b-ready" {
		t.Errorf("batch = %+v ok=%v, want b-ready", batch, ok)
	}
	if batch.Status != models.BatchReady {
		t.Errorf("status = %q", batch.Status)
	}
}
