package importer

// NormalizedRow is one usable (day, category) line from the WIP sheet.
type NormalizedRow struct {
	ProdDay    string
	MachineRaw string
	AliasNorm  string
	Hours      float64
}

// ParseStats summarizes a parsed workbook for the upload screen.
type ParseStats struct {
	RowCount   int
	DayMin     string
	DayMax     string
	Machines   int
	HoursTotal float64
}

// ParseResult is the normalized output of ParseWIPWorkbook.
type ParseResult struct {
	Rows      []NormalizedRow
	Stats     ParseStats
	RefDate   string
	YearMonth string
}

// UploadInput feeds the ingestion coordinator.
type UploadInput struct {
	Rows      []NormalizedRow
	RefDate   string
	YearMonth string
}

// UploadOutcome is the discriminated result of UploadAndProcessBatch.
// Either OK with the authoritative batch state, or a message for the
// operator; never both.
type UploadOutcome struct {
	OK              bool
	BatchID         string
	Status          string
	UnresolvedCount int64
	Message         string
}

// PageData drives the import screen.
type PageData struct {
	Message string
	Batches []BatchSummary
}

// BatchSummary is one row of the recent-uploads table.
type BatchSummary struct {
	ID              string `bun:"id"`
	Status          string `bun:"status"`
	RefDate         string `bun:"ref_date"`
	YearMonth       string `bun:"year_month"`
	RowCount        int64  `bun:"row_count"`
	UnresolvedCount int64  `bun:"unresolved_count"`
	CreatedAt       string `bun:"created_at"`
}
