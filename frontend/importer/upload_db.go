package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"prodmetas/infrastructure/sqlite"
	"prodmetas/models"
)

// Rows are inserted in bounded chunks to keep single statements small.
const insertChunkSize = 500

// UploadAndProcessBatch runs the full ingestion sequence: day-scoped cleanup
// of prior ready batches for the month, batch creation, chunked row inserts,
// processing and a final authoritative re-read.
//
// A failed chunk aborts the upload without deleting already-inserted chunks;
// the batch stays in uploaded state and the next upload of the same days
// cleans the partial data up via the day-scoped delete.
func UploadAndProcessBatch(ctx context.Context, db *sqlite.DB, in UploadInput) UploadOutcome {
	if len(in.Rows) == 0 {
		return fail("upload has no usable rows")
	}

	uniqueDays := distinctDays(in.Rows)

	if len(uniqueDays) > 0 && in.YearMonth != "" {
		if err := deleteSupersededDays(ctx, db, in.YearMonth, uniqueDays); err != nil {
			return fail(fmt.Sprintf("clean superseded days: %v", err))
		}
	}

	batchID := uuid.NewString()
	batch := models.ProductionBatch{
		ID:        batchID,
		Status:    models.BatchUploaded,
		RefDate:   in.RefDate,
		YearMonth: in.YearMonth,
		RowCount:  int64(len(in.Rows)),
		Note:      "upload via web",
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&batch).Exec(ctx)
		return err
	})
	if err != nil {
		return fail(fmt.Sprintf("create batch: %v", err))
	}

	for start := 0; start < len(in.Rows); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(in.Rows) {
			end = len(in.Rows)
		}
		chunk := make([]models.ProductionRow, 0, end-start)
		for _, r := range in.Rows[start:end] {
			chunk = append(chunk, models.ProductionRow{
				BatchID:    batchID,
				ProdDay:    r.ProdDay,
				MachineRaw: r.MachineRaw,
				AliasNorm:  r.AliasNorm,
				Hours:      r.Hours,
			})
		}
		err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
			_, err := tx.NewInsert().Model(&chunk).Exec(ctx)
			return err
		})
		if err != nil {
			return fail(fmt.Sprintf("insert rows: %v", err))
		}
	}

	if err := ProcessProductionBatch(ctx, db, batchID); err != nil {
		return fail(fmt.Sprintf("process batch: %v", err))
	}

	final, err := FetchBatch(ctx, db, batchID)
	if err != nil {
		return fail(fmt.Sprintf("read batch: %v", err))
	}

	return UploadOutcome{
		OK:              true,
		BatchID:         batchID,
		Status:          final.Status,
		UnresolvedCount: final.UnresolvedCount,
	}
}

// deleteSupersededDays removes consolidated and raw rows of prior ready
// batches for exactly the uploaded days. Last writer wins at day granularity;
// other days of those batches stay untouched.
func deleteSupersededDays(ctx context.Context, db *sqlite.DB, yearMonth string, days []string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var batchIDs []string
		err := tx.NewSelect().
			Model((*models.ProductionBatch)(nil)).
			Column("id").
			Where("year_month = ?", yearMonth).
			Where("status = ?", models.BatchReady).
			Scan(ctx, &batchIDs)
		if err != nil {
			return err
		}
		if len(batchIDs) == 0 {
			return nil
		}

		if _, err := tx.NewDelete().
			Model((*models.DailyMachineHours)(nil)).
			Where("batch_id IN (?)", bun.In(batchIDs)).
			Where("prod_day IN (?)", bun.In(days)).
			Exec(ctx); err != nil {
			return err
		}
		_, err = tx.NewDelete().
			Model((*models.ProductionRow)(nil)).
			Where("batch_id IN (?)", bun.In(batchIDs)).
			Where("prod_day IN (?)", bun.In(days)).
			Exec(ctx)
		return err
	})
}

// FetchBatch reads one batch row.
func FetchBatch(ctx context.Context, db *sqlite.DB, batchID string) (models.ProductionBatch, error) {
	var batch models.ProductionBatch
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&batch).Where("id = ?", batchID).Limit(1).Scan(ctx)
	})
	return batch, err
}

// FetchLatestBatchID returns the most recent batch id, or "" when the
// database is empty. Used when no active batch is remembered.
func FetchLatestBatchID(ctx context.Context, db *sqlite.DB) (string, error) {
	var ids []string
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model((*models.ProductionBatch)(nil)).
			Column("id").
			OrderExpr("created_at DESC, id DESC").
			Limit(1).
			Scan(ctx, &ids)
	})
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// ListRecentBatches feeds the recent-uploads table on the import screen.
func ListRecentBatches(ctx context.Context, db *sqlite.DB, limit int) ([]BatchSummary, error) {
	rows := make([]BatchSummary, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, status,
       COALESCE(ref_date, '') AS ref_date,
       COALESCE(year_month, '') AS year_month,
       row_count, unresolved_count,
       strftime('%d/%m/%Y %H:%M', created_at) AS created_at
FROM production_batches
ORDER BY created_at DESC, id DESC
LIMIT ?`, limit).Scan(ctx, &rows)
	})
	return rows, err
}

func distinctDays(rows []NormalizedRow) []string {
	seen := make(map[string]struct{}, len(rows))
	days := make([]string, 0, 8)
	for _, r := range rows {
		if _, ok := seen[r.ProdDay]; ok {
			continue
		}
		seen[r.ProdDay] = struct{}{}
		days = append(days, r.ProdDay)
	}
	return days
}

func fail(message string) UploadOutcome {
	return UploadOutcome{OK: false, Message: message}
}
