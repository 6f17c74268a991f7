package importer

import "testing"

func TestUploadSummaryShowsParseStats(t *testing.T) {
	got := uploadSummary(ParseStats{
		RowCount:   42,
		DayMin:     "2025-08-01",
		DayMax:     "2025-08-15",
		Machines:   7,
		HoursTotal: 312.5,
	})
	want := "Imported 42 rows (2025-08-01 to 2025-08-15, 7 machines, 312.50 hours)"
	if got != want {
		t.Errorf("uploadSummary = %q, want %q", got, want)
	}
}
