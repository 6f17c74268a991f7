package importer

import (
	"context"
	"testing"

	"github.com/uptrace/bun"

	"prodmetas/infrastructure/sqlite"
	"prodmetas/models"
)

func uploadTwoAliasBatch(t *testing.T, db *sqlite.DB) UploadOutcome {
	t.Helper()
	out := UploadAndProcessBatch(context.Background(), db, UploadInput{
		Rows: []NormalizedRow{
			{ProdDay: "2025-08-15", MachineRaw: "CE-TCN12", AliasNorm: "CETCN12", Hours: 4},
			{ProdDay: "2025-08-15", MachineRaw: "Torno 5", AliasNorm: "TORNO5", Hours: 3},
		},
		RefDate:   "2025-08-15",
		YearMonth: "2025-08-01",
	})
	if !out.OK {
		t.Fatalf("upload: %s", out.Message)
	}
	return out
}

func TestProcessBatchStatusTransitions(t *testing.T) {
	db := openImporterTestDB(t)
	ctx := context.Background()

	// Only CETCN12 is mapped by the seed; TORNO5 starts unmapped.
	err := db.WithWriteTx(ctx, func(c context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(c, `INSERT INTO sectors (id, name, sort_order) VALUES (1, 'Usinagem', 1)`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(c, `
INSERT INTO machines (id, sector_id, code, name_display, is_active, sort_order)
VALUES (1, 1, 'TCN-12', 'Torno CNC 12', 1, 1), (2, 1, 'TORNO-5', 'Torno 5', 1, 2)`); err != nil {
			return err
		}
		_, err := tx.ExecContext(c, `INSERT INTO machine_aliases (alias_raw, alias_norm, machine_id) VALUES ('CE-TCN12', 'CETCN12', 1)`)
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	out := uploadTwoAliasBatch(t, db)
	if out.Status != models.BatchNeedsAlias || out.UnresolvedCount != 1 {
		t.Fatalf("after upload: status=%s unresolved=%d, want needs_alias/1", out.Status, out.UnresolvedCount)
	}

	// Map the second alias, reprocess: batch becomes ready.
	err = db.WithWriteTx(ctx, func(c context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(c, `INSERT INTO machine_aliases (alias_raw, alias_norm, machine_id) VALUES ('Torno 5', 'TORNO5', 2)`)
		return err
	})
	if err != nil {
		t.Fatalf("map alias: %v", err)
	}
	if err := ProcessProductionBatch(ctx, db, out.BatchID); err != nil {
		t.Fatalf("reprocess: %v", err)
	}

	batch, err := FetchBatch(ctx, db, out.BatchID)
	if err != nil {
		t.Fatalf("fetch batch: %v", err)
	}
	if batch.Status != models.BatchReady || batch.UnresolvedCount != 0 {
		t.Errorf("after mapping: status=%s unresolved=%d, want ready/0", batch.Status, batch.UnresolvedCount)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM daily_machine_hours WHERE batch_id = ?`, out.BatchID); n != 2 {
		t.Errorf("consolidated rows = %d, want 2", n)
	}
}

func TestProcessBatchIdempotent(t *testing.T) {
	db := openImporterTestDB(t)
	seedStructure(t, db)
	ctx := context.Background()

	out := UploadAndProcessBatch(ctx, db, UploadInput{
		Rows: []NormalizedRow{
			{ProdDay: "2025-08-15", MachineRaw: "CE-TCN12", AliasNorm: "CETCN12", Hours: 4},
			{ProdDay: "2025-08-16", MachineRaw: "CE-TCN12", AliasNorm: "CETCN12", Hours: 2},
		},
		RefDate:   "2025-08-16",
		YearMonth: "2025-08-01",
	})
	if !out.OK {
		t.Fatalf("upload: %s", out.Message)
	}

	before, err := FetchBatch(ctx, db, out.BatchID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if err := ProcessProductionBatch(ctx, db, out.BatchID); err != nil {
		t.Fatalf("second run: %v", err)
	}
	after, err := FetchBatch(ctx, db, out.BatchID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if before.Status != after.Status || before.UnresolvedCount != after.UnresolvedCount {
		t.Errorf("reprocess changed batch state: %s/%d -> %s/%d",
			before.Status, before.UnresolvedCount, after.Status, after.UnresolvedCount)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM daily_machine_hours WHERE batch_id = ?`, out.BatchID); n != 2 {
		t.Errorf("consolidated rows after rerun = %d, want 2 (no duplicates)", n)
	}
}

func TestProcessBatchUnknownBatch(t *testing.T) {
	db := openImporterTestDB(t)
	if err := ProcessProductionBatch(context.Background(), db, "no-such-batch"); err == nil {
		t.Fatal("expected error for unknown batch id")
	}
}
