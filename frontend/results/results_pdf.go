package results

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WriteResultsPDF renders the sector summary as a landscape A4 table.
func WriteResultsPDF(w io.Writer, data PageData) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	translator := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, translator(fmt.Sprintf("Resultados %s", monthLabel(data.MonthStart))), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, translator(fmt.Sprintf("Referência %s - visão %s", formatDay(data.SelectedDay), plainModeLabel(data.Mode))), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	colWidths := []float64{70, 23, 23, 23, 23, 20, 23, 23, 23, 20}
	headers := []string{"Máquina", "Meta mês", "Meta dia", "Real dia", "Delta dia", "% dia", "Meta ac.", "Real ac.", "Delta ac.", "% ac."}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(31, 78, 120)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range headers {
			pdf.CellFormat(colWidths[i], 7, translator(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}
	writeRow := func(label string, bold bool, fill bool, monthTarget, dayTarget, dayReal, dayDelta float64, pctDay *float64, accTarget, accReal, accDelta float64, pctMonth *float64) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 8)
		if fill {
			pdf.SetFillColor(217, 226, 243)
		}
		if pdf.GetY() > 185 {
			pdf.AddPage()
			writeHeader()
		}
		pdf.CellFormat(colWidths[0], 6, translator(label), "1", 0, "L", fill, 0, "")
		cells := []string{
			pdfNum(monthTarget), pdfNum(dayTarget), pdfNum(dayReal), pdfNum(dayDelta), pdfPct(pctDay),
			pdfNum(accTarget), pdfNum(accReal), pdfNum(accDelta), pdfPct(pctMonth),
		}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i+1], 6, c, "1", 0, "R", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	writeHeader()
	for _, group := range data.Groups {
		writeRow(group.Label, true, true, group.MonthTarget, group.DayTarget, group.DayReal, group.DayDelta, group.PctDay, group.AccTarget, group.AccReal, group.AccDelta, group.PctMonth)
		for _, m := range group.Children {
			writeRow("  "+m.Machine.Code+" - "+m.Machine.NameDisplay, false, false, m.MonthTarget, m.DayTarget, m.DayReal, m.DayDelta, m.PctDay, m.AccTarget, m.AccReal, m.AccDelta, m.PctMonth)
		}
	}
	writeRow("Total", true, true, data.Total.MonthTarget, data.Total.DayTarget, data.Total.DayReal, data.Total.DayDelta, data.Total.PctDay, data.Total.AccTarget, data.Total.AccReal, data.Total.AccDelta, data.Total.PctMonth)

	return pdf.Output(w)
}

func pdfNum(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func pdfPct(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *p*100)
}
