package results

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteResultsXLSX renders the summary and the daily track as a styled
// workbook, one sheet each.
func WriteResultsXLSX(w io.Writer, data PageData) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Resumo"
	f.SetSheetName("Sheet1", summary)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	sectorStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E2F3"}},
	})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"BDD7EE"}},
	})
	if err != nil {
		return err
	}
	numStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}
	pctStyle, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Resultados %s - referência %s (%s)", monthLabel(data.MonthStart), formatDay(data.SelectedDay), plainModeLabel(data.Mode))
	if err := f.SetCellValue(summary, "A1", title); err != nil {
		return err
	}

	headers := []string{"Máquina", "Meta mês", "Meta dia", "Real dia", "Δ dia", "% dia", "Meta acum.", "Real acum.", "Δ acum.", "% acum."}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summary, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summary, "A3", "J3", headerStyle); err != nil {
		return err
	}

	row := 4
	writeLine := func(label string, monthTarget, dayTarget, dayReal, dayDelta float64, pctDay *float64, accTarget, accReal, accDelta float64, pctMonth *float64, style int) error {
		values := []any{label, monthTarget, dayTarget, dayReal, dayDelta, nil, accTarget, accReal, accDelta, nil}
		if pctDay != nil {
			values[5] = *pctDay
		}
		if pctMonth != nil {
			values[9] = *pctMonth
		}
		for i, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summary, cell, v); err != nil {
				return err
			}
		}
		if style != 0 {
			start, _ := excelize.CoordinatesToCellName(1, row)
			end, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(summary, start, end, style); err != nil {
				return err
			}
		} else {
			startNum, _ := excelize.CoordinatesToCellName(2, row)
			endNum, _ := excelize.CoordinatesToCellName(9, row)
			if err := f.SetCellStyle(summary, startNum, endNum, numStyle); err != nil {
				return err
			}
			for _, col := range []int{6, 10} {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				if err := f.SetCellStyle(summary, cell, cell, pctStyle); err != nil {
					return err
				}
			}
		}
		row++
		return nil
	}

	for _, group := range data.Groups {
		if err := writeLine(group.Label, group.MonthTarget, group.DayTarget, group.DayReal, group.DayDelta, group.PctDay, group.AccTarget, group.AccReal, group.AccDelta, group.PctMonth, sectorStyle); err != nil {
			return err
		}
		for _, m := range group.Children {
			if err := writeLine("  "+m.Machine.Code+" - "+m.Machine.NameDisplay, m.MonthTarget, m.DayTarget, m.DayReal, m.DayDelta, m.PctDay, m.AccTarget, m.AccReal, m.AccDelta, m.PctMonth, 0); err != nil {
				return err
			}
		}
	}
	if err := writeLine("Total", data.Total.MonthTarget, data.Total.DayTarget, data.Total.DayReal, data.Total.DayDelta, data.Total.PctDay, data.Total.AccTarget, data.Total.AccReal, data.Total.AccDelta, data.Total.PctMonth, totalStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(summary, "A", "A", 34); err != nil {
		return err
	}
	if err := f.SetColWidth(summary, "B", "J", 12); err != nil {
		return err
	}

	if err := writeTrackSheet(f, data); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writeTrackSheet(f *excelize.File, data PageData) error {
	const track = "Diário"
	if _, err := f.NewSheet(track); err != nil {
		return err
	}
	for i, h := range []string{"Dia", "Meta", "Real", "Δ"} {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(track, cell, h); err != nil {
			return err
		}
	}
	for i, entry := range data.Track {
		row := i + 2
		values := []any{formatDay(entry.Day), entry.Target, entry.Real, entry.Delta}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(track, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(track, "A", "D", 14)
}

func plainModeLabel(mode string) string {
	if mode == ModeAccounting {
		return "contabilização"
	}
	return "produção"
}
