package importer

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"prodmetas/infrastructure/sqlite"
	"prodmetas/models"
)

// ProcessProductionBatch classifies a batch against the alias dictionary and
// consolidates resolved rows into daily_machine_hours. It is the only writer
// of batch status and unresolved_count.
//
// The run is idempotent: consolidated rows for the batch are rebuilt from the
// raw rows every time, so repeated calls with an unchanged alias table leave
// status and unresolved_count as they were.
func ProcessProductionBatch(ctx context.Context, db *sqlite.DB, batchID string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var exists int
		if err := tx.NewRaw(`SELECT COUNT(1) FROM production_batches WHERE id = ?`, batchID).Scan(ctx, &exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("batch %s not found", batchID)
		}

		var unresolved int64
		err := tx.NewRaw(`
SELECT COUNT(DISTINCT prw.alias_norm)
FROM production_rows prw
LEFT JOIN machine_aliases ma ON ma.alias_norm = prw.alias_norm
WHERE prw.batch_id = ? AND ma.id IS NULL`, batchID).Scan(ctx, &unresolved)
		if err != nil {
			return err
		}

		// Rebuild the batch's consolidated rows from scratch so stale sums
		// from earlier runs cannot survive an alias remap.
		if _, err := tx.ExecContext(ctx, `DELETE FROM daily_machine_hours WHERE batch_id = ?`, batchID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO daily_machine_hours (batch_id, prod_day, machine_id, hours)
SELECT prw.batch_id, prw.prod_day, ma.machine_id, SUM(prw.hours)
FROM production_rows prw
JOIN machine_aliases ma ON ma.alias_norm = prw.alias_norm
WHERE prw.batch_id = ?
GROUP BY prw.prod_day, ma.machine_id`, batchID); err != nil {
			return err
		}

		status := models.BatchReady
		if unresolved > 0 {
			status = models.BatchNeedsAlias
		}
		_, err = tx.ExecContext(ctx, `
UPDATE production_batches SET status = ?, unresolved_count = ? WHERE id = ?`,
			status, unresolved, batchID)
		return err
	})
}
