package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Batch statuses. The processor owns every transition; handlers only
// trigger processing and read the result back.
const (
	BatchUploaded   = "uploaded"
	BatchNeedsAlias = "needs_alias"
	BatchReady      = "ready"
	BatchError      = "error"
)

// Sector groups machines for display. Never auto-created.
type Sector struct {
	bun.BaseModel `bun:"table:sectors,alias:sec"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	SortOrder int64     `bun:"sort_order,notnull,default:0"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Machine is the canonical production unit aliases resolve to.
type Machine struct {
	bun.BaseModel `bun:"table:machines,alias:m"`

	ID          int64     `bun:"id,pk,autoincrement"`
	SectorID    int64     `bun:"sector_id,notnull"`
	Code        string    `bun:"code,notnull"`
	NameDisplay string    `bun:"name_display,notnull"`
	IsActive    bool      `bun:"is_active,notnull,default:true"`
	SortOrder   int64     `bun:"sort_order,notnull,default:0"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// MachineAlias maps a normalized spreadsheet category to a machine.
// alias_norm is the natural key; upserting it re-points the mapping.
type MachineAlias struct {
	bun.BaseModel `bun:"table:machine_aliases,alias:ma"`

	ID        int64     `bun:"id,pk,autoincrement"`
	AliasRaw  string    `bun:"alias_raw,notnull"`
	AliasNorm string    `bun:"alias_norm,notnull,unique"`
	MachineID int64     `bun:"machine_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// ProductionBatch is one spreadsheet upload and its processing outcome.
type ProductionBatch struct {
	bun.BaseModel `bun:"table:production_batches,alias:pb"`

	ID              string    `bun:"id,pk"`
	Status          string    `bun:"status,notnull"`
	RefDate         string    `bun:"ref_date"`
	YearMonth       string    `bun:"year_month"`
	RowCount        int64     `bun:"row_count,notnull,default:0"`
	UnresolvedCount int64     `bun:"unresolved_count,notnull,default:0"`
	Note            string    `bun:"note"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// ProductionRow is an immutable raw fact from the spreadsheet, one per
// (day, category) line. Deleted only by the day-scoped overwrite on re-upload.
type ProductionRow struct {
	bun.BaseModel `bun:"table:production_rows,alias:prw"`

	ID         int64     `bun:"id,pk,autoincrement"`
	BatchID    string    `bun:"batch_id,notnull"`
	ProdDay    string    `bun:"prod_day,notnull"`
	MachineRaw string    `bun:"machine_raw,notnull"`
	AliasNorm  string    `bun:"alias_norm,notnull"`
	Hours      float64   `bun:"hours,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// DailyMachineHours is the consolidated (day, machine) aggregate written by
// the batch processor once every alias in the batch is mapped.
type DailyMachineHours struct {
	bun.BaseModel `bun:"table:daily_machine_hours,alias:dmh"`

	ID        int64   `bun:"id,pk,autoincrement"`
	BatchID   string  `bun:"batch_id,notnull"`
	ProdDay   string  `bun:"prod_day,notnull"`
	MachineID int64   `bun:"machine_id,notnull"`
	Hours     float64 `bun:"hours,notnull"`
}

// TargetDefault is the business-day target for a machine in a month,
// keyed by (month, machine_id).
type TargetDefault struct {
	bun.BaseModel `bun:"table:targets_daily_defaults,alias:tdd"`

	MachineID   int64   `bun:"machine_id,pk"`
	Month       string  `bun:"month,pk"`
	DailyTarget float64 `bun:"daily_target,notnull"`
}

// TargetDaily overrides the default for one exact day, keyed by
// (day, machine_id). An override applies even on weekends and even at zero.
type TargetDaily struct {
	bun.BaseModel `bun:"table:targets_daily,alias:td"`

	MachineID   int64   `bun:"machine_id,pk"`
	Day         string  `bun:"day,pk"`
	TargetHours float64 `bun:"target_hours,notnull"`
}
