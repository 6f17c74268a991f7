package aliases

import "prodmetas/models"

// PendingAlias is one unmapped category of a batch, summarized by impact.
type PendingAlias struct {
	AliasNorm  string  `bun:"alias_norm"`
	MachineRaw string  `bun:"machine_raw"`
	RowCount   int64   `bun:"row_count"`
	HoursTotal float64 `bun:"hours_total"`
	DayMin     string  `bun:"day_min"`
	DayMax     string  `bun:"day_max"`
}

// ConfiguredAlias is an alias already linked to a machine, joined for display.
type ConfiguredAlias struct {
	ID          int64  `bun:"id"`
	AliasRaw    string `bun:"alias_raw"`
	AliasNorm   string `bun:"alias_norm"`
	MachineID   int64  `bun:"machine_id"`
	MachineCode string `bun:"machine_code"`
	MachineName string `bun:"machine_name"`
	SectorName  string `bun:"sector_name"`
	CreatedAt   string `bun:"created_at"`
}

// MachineOption is a machine select entry grouped under its sector.
type MachineOption struct {
	ID         int64  `bun:"id"`
	Code       string `bun:"code"`
	SectorName string `bun:"sector_name"`
}

// ApplyInput carries one mapping decision from the form. Exactly one of
// MachineID (link to existing) or the create fields is used, selected by Mode.
type ApplyInput struct {
	AliasRaw  string
	AliasNorm string

	Mode      string // "existing" or "create"
	MachineID int64

	SectorID    int64
	Code        string
	NameDisplay string
}

// PageData drives the aliases screen.
type PageData struct {
	Message    string
	BatchID    string
	Batch      models.ProductionBatch
	Pending    []PendingAlias
	Configured []ConfiguredAlias
	Sectors    []models.Sector
	Machines   []MachineOption
}
