package importer

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column labels the WIP sheet must carry, matched case-insensitively on the
// header row. The header may sit anywhere in the first 30 rows.
var requiredHeaders = []string{"data do wip", "alíquota", "categoria"}

const headerScanLimit = 30

// ParseWIPWorkbook reads the first sheet of a WIP workbook into normalized
// rows. Lines carrying a literal "total" cell are skipped but scanning
// continues past them; lines missing day, category or hours are dropped.
func ParseWIPWorkbook(r io.Reader) (ParseResult, error) {
	var out ParseResult

	f, err := excelize.OpenReader(r)
	if err != nil {
		return out, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return out, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return out, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return out, fmt.Errorf("spreadsheet is empty")
	}

	headerRow := -1
	for i := 0; i < len(rows) && i < headerScanLimit; i++ {
		if hasAllHeaders(rows[i]) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return out, fmt.Errorf("header not found; need columns Data do WIP, Alíquota, Categoria")
	}

	idxDay := headerIndex(rows[headerRow], requiredHeaders[0])
	idxHours := headerIndex(rows[headerRow], requiredHeaders[1])
	idxCat := headerIndex(rows[headerRow], requiredHeaders[2])

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if rowHasTotal(row) {
			continue
		}

		day, dayOK := ParseDay(cellAt(row, idxDay))
		hours, hoursOK := ToNumberHours(cellAt(row, idxHours))
		cat := strings.TrimSpace(cellAt(row, idxCat))
		if !dayOK || !hoursOK || cat == "" {
			continue
		}

		out.Rows = append(out.Rows, NormalizedRow{
			ProdDay:    day,
			MachineRaw: cat,
			AliasNorm:  NormalizeAlias(cat),
			Hours:      hours,
		})
	}

	out.Stats, out.RefDate, out.YearMonth = summarize(out.Rows)
	return out, nil
}

func summarize(rows []NormalizedRow) (ParseStats, string, string) {
	stats := ParseStats{RowCount: len(rows)}
	if len(rows) == 0 {
		return stats, "", ""
	}

	days := make([]string, 0, len(rows))
	aliases := make(map[string]struct{})
	total := 0.0
	for _, r := range rows {
		days = append(days, r.ProdDay)
		aliases[r.AliasNorm] = struct{}{}
		total += r.Hours
	}
	sort.Strings(days)

	stats.DayMin = days[0]
	stats.DayMax = days[len(days)-1]
	stats.Machines = len(aliases)
	stats.HoursTotal = math.Round(total*100) / 100

	refDate := stats.DayMax
	yearMonth := refDate[:7] + "-01"
	return stats, refDate, yearMonth
}

func hasAllHeaders(row []string) bool {
	cols := make(map[string]struct{}, len(row))
	for _, c := range row {
		cols[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	for _, want := range requiredHeaders {
		if _, ok := cols[want]; !ok {
			return false
		}
	}
	return true
}

func headerIndex(row []string, label string) int {
	for i, c := range row {
		if strings.ToLower(strings.TrimSpace(c)) == label {
			return i
		}
	}
	return -1
}

func rowHasTotal(row []string) bool {
	for _, c := range row {
		if strings.EqualFold(strings.TrimSpace(c), "total") {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
