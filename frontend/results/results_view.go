package results

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"prodmetas/frontend/shared/html"
)

func ResultsPage(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(html.Flash(data.Message))
		b.WriteString("<h1>Resultados</h1>")
		writeControls(&b, data)

		if !data.HasData {
			b.WriteString("<p class=\"empty\">Nenhum lote processado para este m&ecirc;s. <a href=\"/wip/import\">Importe uma planilha</a>.</p>")
			_, err := io.WriteString(w, b.String())
			return err
		}

		fmt.Fprintf(&b, "<p class=\"hint\">Dia de refer&ecirc;ncia %s &middot; vis&atilde;o %s</p>",
			html.E(formatDay(data.SelectedDay)), modeLabel(data.Mode))

		writeSummaryTable(&b, data)
		writeTrackTable(&b, data)

		_, err := io.WriteString(w, b.String())
		return err
	})
	return html.Page("Resultados", "/wip/results", body)
}

func writeControls(b *strings.Builder, data PageData) {
	b.WriteString("<div class=\"monthnav\">")
	fmt.Fprintf(b, "<a href=\"/wip/results?month=%s&mode=%s\">&laquo; anterior</a>", data.PrevMonth, data.Mode)
	fmt.Fprintf(b, "<strong>%s</strong>", html.E(monthLabel(data.MonthStart)))
	if data.NextMonth != "" {
		fmt.Fprintf(b, "<a href=\"/wip/results?month=%s&mode=%s\">pr&oacute;ximo &raquo;</a>", data.NextMonth, data.Mode)
	}
	b.WriteString("</div>")

	b.WriteString("<div class=\"modeswitch\">")
	writeModeLink(b, data, ModeProduction, "Produ&ccedil;&atilde;o")
	writeModeLink(b, data, ModeAccounting, "Contabiliza&ccedil;&atilde;o")
	if data.HasData {
		fmt.Fprintf(b, "<a class=\"export\" href=\"/wip/results/export.xlsx?month=%s&mode=%s&day=%s\">Exportar XLSX</a>", data.MonthStart, data.Mode, data.SelectedDay)
		fmt.Fprintf(b, "<a class=\"export\" href=\"/wip/results/export.pdf?month=%s&mode=%s&day=%s\">Exportar PDF</a>", data.MonthStart, data.Mode, data.SelectedDay)
	}
	b.WriteString("</div>")

	if data.HasData {
		b.WriteString("<form method=\"get\" action=\"/wip/results\" class=\"inline\">")
		fmt.Fprintf(b, "<input type=\"hidden\" name=\"month\" value=%q>", data.MonthStart)
		fmt.Fprintf(b, "<input type=\"hidden\" name=\"mode\" value=%q>", data.Mode)
		fmt.Fprintf(b, "<input type=\"date\" name=\"day\" value=%q min=%q max=%q>", data.SelectedDay, data.MonthStart, data.RefDate)
		b.WriteString("<button type=\"submit\">Focar dia</button></form>")
	}
}

func writeModeLink(b *strings.Builder, data PageData, mode, label string) {
	if data.Mode == mode {
		fmt.Fprintf(b, "<span class=\"mode active\">%s</span>", label)
		return
	}
	fmt.Fprintf(b, "<a class=\"mode\" href=\"/wip/results?month=%s&mode=%s\">%s</a>", data.MonthStart, mode, label)
}

func writeSummaryTable(b *strings.Builder, data PageData) {
	b.WriteString("<table class=\"grid results\"><thead><tr>")
	b.WriteString("<th>M&aacute;quina</th><th>Meta m&ecirc;s</th><th>Meta dia</th><th>Real dia</th><th>&Delta; dia</th><th>% dia</th><th>Meta acum.</th><th>Real acum.</th><th>&Delta; acum.</th><th>% acum.</th>")
	b.WriteString("</tr></thead><tbody>")

	for _, group := range data.Groups {
		fmt.Fprintf(b, "<tr class=\"sector\"><td>%s</td>", html.E(group.Label))
		writeMetricCells(b, group.MonthTarget, group.DayTarget, group.DayReal, group.DayDelta, group.PctDay, group.AccTarget, group.AccReal, group.AccDelta, group.PctMonth)
		b.WriteString("</tr>")
		for _, row := range group.Children {
			fmt.Fprintf(b, "<tr><td class=\"machine\">%s - %s</td>", html.E(row.Machine.Code), html.E(row.Machine.NameDisplay))
			writeMetricCells(b, row.MonthTarget, row.DayTarget, row.DayReal, row.DayDelta, row.PctDay, row.AccTarget, row.AccReal, row.AccDelta, row.PctMonth)
			b.WriteString("</tr>")
		}
	}

	b.WriteString("<tr class=\"total\"><td>Total</td>")
	writeMetricCells(b, data.Total.MonthTarget, data.Total.DayTarget, data.Total.DayReal, data.Total.DayDelta, data.Total.PctDay, data.Total.AccTarget, data.Total.AccReal, data.Total.AccDelta, data.Total.PctMonth)
	b.WriteString("</tr></tbody></table>")
}

func writeMetricCells(b *strings.Builder, monthTarget, dayTarget, dayReal, dayDelta float64, pctDay *float64, accTarget, accReal, accDelta float64, pctMonth *float64) {
	fmt.Fprintf(b, "<td>%s</td>", num(monthTarget))
	fmt.Fprintf(b, "<td>%s</td>", num(dayTarget))
	fmt.Fprintf(b, "<td>%s</td>", num(dayReal))
	fmt.Fprintf(b, "<td class=%q>%s</td>", deltaClass(dayDelta), num(dayDelta))
	fmt.Fprintf(b, "<td>%s</td>", pctText(pctDay))
	fmt.Fprintf(b, "<td>%s</td>", num(accTarget))
	fmt.Fprintf(b, "<td>%s</td>", num(accReal))
	fmt.Fprintf(b, "<td class=%q>%s</td>", deltaClass(accDelta), num(accDelta))
	fmt.Fprintf(b, "<td>%s</td>", pctText(pctMonth))
}

func writeTrackTable(b *strings.Builder, data PageData) {
	b.WriteString("<h2>Acompanhamento di&aacute;rio</h2>")
	if len(data.Track) == 0 {
		b.WriteString("<p class=\"empty\">Sem dias para exibir.</p>")
		return
	}
	b.WriteString("<table class=\"grid\"><thead><tr><th>Dia</th><th>Meta</th><th>Real</th><th>&Delta;</th></tr></thead><tbody>")
	for _, entry := range data.Track {
		cls := ""
		if entry.IsSaturday || entry.IsSunday {
			cls = " class=\"weekend\""
		}
		fmt.Fprintf(b, "<tr%s>", cls)
		fmt.Fprintf(b, "<td><a href=\"/wip/results?month=%s&mode=%s&day=%s\">%s</a></td>", data.MonthStart, data.Mode, entry.Day, html.E(formatDay(entry.Day)))
		fmt.Fprintf(b, "<td>%s</td>", num(entry.Target))
		fmt.Fprintf(b, "<td>%s</td>", num(entry.Real))
		fmt.Fprintf(b, "<td class=%q>%s</td>", deltaClass(entry.Delta), num(entry.Delta))
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
}

func num(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

func pctText(p *float64) string {
	if p == nil {
		return "&ndash;"
	}
	return strings.Replace(fmt.Sprintf("%.1f%%", *p*100), ".", ",", 1)
}

func deltaClass(v float64) string {
	switch {
	case v > 0:
		return "pos"
	case v < 0:
		return "neg"
	default:
		return "zero"
	}
}

func modeLabel(mode string) string {
	if mode == ModeAccounting {
		return "contabiliza&ccedil;&atilde;o"
	}
	return "produ&ccedil;&atilde;o"
}

func monthLabel(monthStart string) string {
	if len(monthStart) >= 7 {
		return monthStart[5:7] + "/" + monthStart[:4]
	}
	return monthStart
}

func formatDay(day string) string {
	if len(day) == 10 {
		return day[8:10] + "/" + day[5:7] + "/" + day[:4]
	}
	return day
}
