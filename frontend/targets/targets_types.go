package targets

import (
	"prodmetas/frontend/structure"
	"prodmetas/models"
)

// PageData drives the targets screen for one month.
type PageData struct {
	Message    string
	MonthStart string // YYYY-MM-01
	PrevMonth  string
	NextMonth  string

	Machines []structure.MachineRow
	// Defaults maps machine id to its business-day target this month.
	Defaults map[int64]float64
	// Overrides are the month's per-day exceptions, oldest first.
	Overrides []models.TargetDaily
	// MachineLabel resolves machine ids in the overrides table.
	MachineLabel map[int64]string
}
