package structure

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"prodmetas/infrastructure/sqlite"
	"prodmetas/models"
)

// ListSectors returns sectors by sort order, then name.
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

// ListMachines returns every machine joined with its sector, in display order.
func ListMachines(ctx context.Context, db *sqlite.DB) ([]MachineRow, error) {
	rows := make([]MachineRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT m.id, m.sector_id, m.code, m.name_display, m.is_active, m.sort_order,
       sec.name AS sector_name
FROM machines m
JOIN sectors sec ON sec.id = m.sector_id
ORDER BY sec.sort_order ASC, m.sort_order ASC, m.code ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

// CreateSector adds a display grouping. Sectors are only ever created here,
// never implicitly.
func CreateSector(ctx context.Context, db *sqlite.DB, name string, sortOrder int64) (models.Sector, error) {
	sector := models.Sector{Name: strings.TrimSpace(name), SortOrder: sortOrder}
	if sector.Name == "" {
		return sector, fmt.Errorf("sector name is required")
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&sector).Exec(ctx)
		return err
	})
	return sector, err
}

// UpdateSector renames or reorders a sector.
func UpdateSector(ctx context.Context, db *sqlite.DB, id int64, name string, sortOrder int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("sector name is required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE sectors SET name = ?, sort_order = ? WHERE id = ?`, name, sortOrder, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("sector %d not found", id)
		}
		return nil
	})
}

// CreateMachine adds a machine under a sector. Codes are stored uppercased.
func CreateMachine(ctx context.Context, db *sqlite.DB, sectorID int64, code, nameDisplay string, sortOrder int64) (models.Machine, error) {
	machine := models.Machine{
		SectorID:    sectorID,
		Code:        strings.ToUpper(strings.TrimSpace(code)),
		NameDisplay: strings.TrimSpace(nameDisplay),
		IsActive:    true,
		SortOrder:   sortOrder,
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

// UpdateMachine rewrites a machine's editable fields, including moving it to
// another sector or toggling is_active.
func UpdateMachine(ctx context.Context, db *sqlite.DB, id, sectorID int64, code, nameDisplay string, isActive bool, sortOrder int64) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	nameDisplay = strings.TrimSpace(nameDisplay)
	if sectorID <= 0 {
		return fmt.Errorf("sector is required")
	}
	if code == "" || nameDisplay == "" {
		return fmt.Errorf("machine code and display name are required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE machines
SET sector_id = ?, code = ?, name_display = ?, is_active = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`, sectorID, code, nameDisplay, isActive, sortOrder, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("machine %d not found", id)
		}
		return nil
	})
}
