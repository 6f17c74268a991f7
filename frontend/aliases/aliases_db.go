package aliases

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"prodmetas/frontend/importer"
	"prodmetas/infrastructure/sqlite"
	"prodmetas/models"
)

// FetchPendingAliases lists the distinct unmapped categories of a batch,
// highest total hours first so the biggest gap gets mapped first.
func FetchPendingAliases(ctx context.Context, db *sqlite.DB, batchID string) ([]PendingAlias, error) {
	rows := make([]PendingAlias, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT prw.alias_norm,
       MIN(prw.machine_raw) AS machine_raw,
       COUNT(*) AS row_count,
       ROUND(SUM(prw.hours), 2) AS hours_total,
       MIN(prw.prod_day) AS day_min,
       MAX(prw.prod_day) AS day_max
FROM production_rows prw
LEFT JOIN machine_aliases ma ON ma.alias_norm = prw.alias_norm
WHERE prw.batch_id = ? AND ma.id IS NULL
GROUP BY prw.alias_norm
ORDER BY hours_total DESC`, batchID).Scan(ctx, &rows)
	})
	return rows, err
}

// FetchConfiguredAliases lists every stored mapping joined with machine and
// sector names, ordered by the normalized key.
func FetchConfiguredAliases(ctx context.Context, db *sqlite.DB) ([]ConfiguredAlias, error) {
	rows := make([]ConfiguredAlias, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT ma.id, ma.alias_raw, ma.alias_norm, ma.machine_id,
       m.code AS machine_code,
       m.name_display AS machine_name,
       sec.name AS sector_name,
       strftime('%d/%m/%Y', ma.created_at) AS created_at
FROM machine_aliases ma
JOIN machines m ON m.id = ma.machine_id
JOIN sectors sec ON sec.id = m.sector_id
ORDER BY ma.alias_norm ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

// ListMachineOptions returns machines for the mapping select, sector label
// included, in the display order used everywhere else.
func ListMachineOptions(ctx context.Context, db *sqlite.DB) ([]MachineOption, error) {
	rows := make([]MachineOption, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT m.id, m.code, sec.name AS sector_name
FROM machines m
JOIN sectors sec ON sec.id = m.sector_id
ORDER BY m.sort_order ASC, m.code ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

// ListSectors returns sectors in display order.
func ListSectors(ctx context.Context, db *sqlite.DB) ([]models.Sector, error) {
	sectors := make([]models.Sector, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&sectors).
			OrderExpr("sort_order ASC, name ASC").
			Scan(ctx)
	})
	return sectors, err
}

// UpsertAlias stores a mapping keyed by alias_norm. Re-mapping an alias
// overwrites its machine link.
func UpsertAlias(ctx context.Context, db *sqlite.DB, aliasRaw, aliasNorm string, machineID int64) error {
	if strings.TrimSpace(aliasNorm) == "" {
		return fmt.Errorf("alias_norm is required")
	}
	if machineID <= 0 {
		return fmt.Errorf("machine is required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO machine_aliases (alias_raw, alias_norm, machine_id)
VALUES (?, ?, ?)
ON CONFLICT(alias_norm) DO UPDATE SET
  alias_raw = excluded.alias_raw,
  machine_id = excluded.machine_id`, aliasRaw, aliasNorm, machineID)
		return err
	})
}

// DeleteAlias removes one stored mapping. Consolidated hours already written
// from it stay; only future processing is affected.
func DeleteAlias(ctx context.Context, db *sqlite.DB, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM machine_aliases WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("alias %d not found", id)
		}
		return nil
	})
}

// ApplyMapping links a pending alias to a machine, creating the machine
// first when the operator chose that path, then reprocesses the batch so the
// backend re-evaluates its status. Returns the authoritative batch state.
func ApplyMapping(ctx context.Context, db *sqlite.DB, batchID string, in ApplyInput) (models.ProductionBatch, error) {
	var batch models.ProductionBatch

	machineID := in.MachineID
	if in.Mode == "create" {
		created, err := createMachineForAlias(ctx, db, in)
		if err != nil {
			return batch, err
		}
		machineID = created.ID
	}

	if err := UpsertAlias(ctx, db, in.AliasRaw, in.AliasNorm, machineID); err != nil {
		return batch, err
	}
	if err := importer.ProcessProductionBatch(ctx, db, batchID); err != nil {
		return batch, err
	}
	return importer.FetchBatch(ctx, db, batchID)
}

func createMachineForAlias(ctx context.Context, db *sqlite.DB, in ApplyInput) (models.Machine, error) {
	machine := models.Machine{
		SectorID:    in.SectorID,
		Code:        strings.ToUpper(strings.TrimSpace(in.Code)),
		NameDisplay: strings.TrimSpace(in.NameDisplay),
		IsActive:    true,
	}
	if machine.SectorID <= 0 {
		return machine, fmt.Errorf("sector is required")
	}
	if machine.Code == "" || machine.NameDisplay == "" {
		return machine, fmt.Errorf("machine code and display name are required")
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&machine).Exec(ctx)
		return err
	})
	return machine, err
}
