package structure

import "prodmetas/models"

// MachineRow is a machine joined with its sector for the structure table.
type MachineRow struct {
	ID          int64  `bun:"id"`
	SectorID    int64  `bun:"sector_id"`
	Code        string `bun:"code"`
	NameDisplay string `bun:"name_display"`
	IsActive    bool   `bun:"is_active"`
	SortOrder   int64  `bun:"sort_order"`
	SectorName  string `bun:"sector_name"`
}

// PageData drives the structure screen.
type PageData struct {
	Message  string
	Sectors  []models.Sector
	Machines []MachineRow
}
