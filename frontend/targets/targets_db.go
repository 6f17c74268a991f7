package targets

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"prodmetas/infrastructure/sqlite"
	"prodmetas/models"
)

// FetchDefaults returns the monthly defaults for one month keyed by machine.
func FetchDefaults(ctx context.Context, db *sqlite.DB, monthStart string) ([]models.TargetDefault, error) {
	rows := make([]models.TargetDefault, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&rows).
			Where("month = ?", monthStart).
			Scan(ctx)
	})
	return rows, err
}

// UpsertDefault writes the business-day target for (month, machine).
func UpsertDefault(ctx context.Context, db *sqlite.DB, machineID int64, monthStart string, dailyTarget float64) error {
	if machineID <= 0 || monthStart == "" {
		return fmt.Errorf("machine and month are required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO targets_daily_defaults (machine_id, month, daily_target)
VALUES (?, ?, ?)
ON CONFLICT(month, machine_id) DO UPDATE SET daily_target = excluded.daily_target`,
			machineID, monthStart, dailyTarget)
		return err
	})
}

// FetchDaily returns per-day overrides inside a range, oldest first.
func FetchDaily(ctx context.Context, db *sqlite.DB, dateFrom, dateTo string) ([]models.TargetDaily, error) {
	rows := make([]models.TargetDaily, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&rows).
			Where("day >= ?", dateFrom).
			Where("day <= ?", dateTo).
			OrderExpr("day ASC").
			Scan(ctx)
	})
	return rows, err
}

// UpsertDaily writes an override for (day, machine). A zero value is a valid
// override and suppresses the default for that day.
func UpsertDaily(ctx context.Context, db *sqlite.DB, machineID int64, day string, targetHours float64) error {
	if machineID <= 0 || day == "" {
		return fmt.Errorf("machine and day are required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO targets_daily (machine_id, day, target_hours)
VALUES (?, ?, ?)
ON CONFLICT(day, machine_id) DO UPDATE SET target_hours = excluded.target_hours`,
			machineID, day, targetHours)
		return err
	})
}

// DeleteDaily removes an override, reverting that day to default behavior.
func DeleteDaily(ctx context.Context, db *sqlite.DB, machineID int64, day string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM targets_daily WHERE machine_id = ? AND day = ?`, machineID, day)
		return err
	})
}

// ZeroDayForMachines writes a zero override for every listed machine on one
// day, used to blank out a collective stoppage.
func ZeroDayForMachines(ctx context.Context, db *sqlite.DB, day string, machineIDs []int64) error {
	if day == "" {
		return fmt.Errorf("day is required")
	}
	if len(machineIDs) == 0 {
		return nil
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for _, id := range machineIDs {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO targets_daily (machine_id, day, target_hours)
VALUES (?, ?, 0)
ON CONFLICT(day, machine_id) DO UPDATE SET target_hours = 0`, id, day); err != nil {
				return err
			}
		}
		return nil
	})
}

// CopyDefaults copies one month's defaults onto another, overwriting
// collisions. Returns how many machine rows were copied.
func CopyDefaults(ctx context.Context, db *sqlite.DB, sourceMonth, targetMonth string) (int, error) {
	if sourceMonth == "" || targetMonth == "" {
		return 0, fmt.Errorf("source and target months are required")
	}
	if sourceMonth == targetMonth {
		return 0, fmt.Errorf("source and target months must differ")
	}
	source, err := FetchDefaults(ctx, db, sourceMonth)
	if err != nil {
		return 0, err
	}
	if len(source) == 0 {
		return 0, nil
	}
	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for _, row := range source {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO targets_daily_defaults (machine_id, month, daily_target)
VALUES (?, ?, ?)
ON CONFLICT(month, machine_id) DO UPDATE SET daily_target = excluded.daily_target`,
				row.MachineID, targetMonth, row.DailyTarget); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(source), nil
}
