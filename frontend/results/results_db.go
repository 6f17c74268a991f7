package results

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"prodmetas/infrastructure/sqlite"
	"prodmetas/models"
)

// FetchLatestReadyBatch returns the newest fully processed batch, or
// ok=false when nothing has ever been processed.
func FetchLatestReadyBatch(ctx context.Context, db *sqlite.DB) (models.ProductionBatch, bool, error) {
	var batch models.ProductionBatch
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&batch).
			Where("status = ?", models.BatchReady).
			OrderExpr("created_at DESC").
			Limit(1).
			Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return batch, false, nil
	}
	if err != nil {
		return batch, false, err
	}
	return batch, true, nil
}

// LoadMonth assembles everything the aggregator needs for one month:
// consolidated hours from ready batches, the machine tree and the target
// book. hasData is false when no ready batch touches the month.
func LoadMonth(ctx context.Context, db *sqlite.DB, monthStart, selectedDay, mode string) (Input, bool, error) {
	monthEnd := endOfMonth(monthStart)

	in := Input{
		MonthStart:  monthStart,
		SelectedDay: selectedDay,
		Mode:        mode,
	}

	real, refDate, err := fetchConsolidatedHours(ctx, db, monthStart, monthEnd)
	if err != nil {
		return in, false, err
	}
	if refDate == "" {
		return in, false, nil
	}
	in.RealByMachineDay = real
	in.RefDate = refDate

	machines, err := FetchMachineTree(ctx, db)
	if err != nil {
		return in, false, err
	}
	in.Machines = machines

	targets, err := fetchTargetBook(ctx, db, monthStart, monthEnd)
	if err != nil {
		return in, false, err
	}
	in.Targets = targets
	return in, true, nil
}

// FetchMachineTree lists every machine joined with its sector ordering.
// Inactive machines are included; the aggregator skips them itself.
func FetchMachineTree(ctx context.Context, db *sqlite.DB) ([]MachineInfo, error) {
	rows := make([]MachineInfo, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT m.id, m.sector_id, m.code, m.name_display, m.is_active, m.sort_order,
       sec.name AS sector_name,
       sec.sort_order AS sector_sort_order
FROM machines m
JOIN sectors sec ON sec.id = m.sector_id
ORDER BY sec.sort_order ASC, m.sort_order ASC, m.code ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

type consolidatedRow struct {
	MachineID int64   `bun:"machine_id"`
	ProdDay   string  `bun:"prod_day"`
	Hours     float64 `bun:"hours"`
}

// fetchConsolidatedHours sums daily_machine_hours over every ready batch in
// the window. Day-scoped supersede on upload keeps days disjoint across
// batches, so the SUM is a union, not double counting.
func fetchConsolidatedHours(ctx context.Context, db *sqlite.DB, dateFrom, dateTo string) (map[int64]map[string]float64, string, error) {
	rows := make([]consolidatedRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT dmh.machine_id, dmh.prod_day, SUM(dmh.hours) AS hours
FROM daily_machine_hours dmh
JOIN production_batches pb ON pb.id = dmh.batch_id
WHERE pb.status = ? AND dmh.prod_day >= ? AND dmh.prod_day <= ?
GROUP BY dmh.machine_id, dmh.prod_day`, models.BatchReady, dateFrom, dateTo).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, "", err
	}

	real := make(map[int64]map[string]float64)
	refDate := ""
	for _, row := range rows {
		byDay, ok := real[row.MachineID]
		if !ok {
			byDay = make(map[string]float64)
			real[row.MachineID] = byDay
		}
		byDay[row.ProdDay] = row.Hours
		if row.ProdDay > refDate {
			refDate = row.ProdDay
		}
	}
	return real, refDate, nil
}

func fetchTargetBook(ctx context.Context, db *sqlite.DB, monthStart, monthEnd string) (TargetBook, error) {
	book := TargetBook{
		Defaults:  make(map[int64]float64),
		Overrides: make(map[int64]map[string]float64),
	}

	defaults := make([]models.TargetDefault, 0)
	overrides := make([]models.TargetDaily, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().
			Model(&defaults).
			Where("month = ?", monthStart).
			Scan(ctx); err != nil {
			return err
		}
		return tx.NewSelect().
			Model(&overrides).
			Where("day >= ?", monthStart).
			Where("day <= ?", monthEnd).
			Scan(ctx)
	})
	if err != nil {
		return book, err
	}

	for _, d := range defaults {
		book.Defaults[d.MachineID] = d.DailyTarget
	}
	for _, ov := range overrides {
		byDay, ok := book.Overrides[ov.MachineID]
		if !ok {
			byDay = make(map[string]float64)
			book.Overrides[ov.MachineID] = byDay
		}
		byDay[ov.Day] = ov.TargetHours
	}
	return book, nil
}

func endOfMonth(monthStart string) string {
	t, err := time.Parse("2006-01-02", monthStart)
	if err != nil {
		return monthStart
	}
	return t.AddDate(0, 1, -1).Format("2006-01-02")
}
