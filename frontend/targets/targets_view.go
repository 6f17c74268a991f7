package targets

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"prodmetas/frontend/shared/html"
)

func TargetsPage(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(html.Flash(data.Message))
		b.WriteString("<h1>Metas</h1>")
		writeMonthNav(&b, data)
		writeDefaultsSection(&b, data)
		writeOverridesSection(&b, data)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return html.Page("Metas", "/wip/targets", body)
}

func writeMonthNav(b *strings.Builder, data PageData) {
	b.WriteString("<div class=\"monthnav\">")
	fmt.Fprintf(b, "<a href=\"/wip/targets?month=%s\">&laquo; anterior</a>", data.PrevMonth)
	fmt.Fprintf(b, "<strong>%s</strong>", html.E(monthLabel(data.MonthStart)))
	fmt.Fprintf(b, "<a href=\"/wip/targets?month=%s\">pr&oacute;ximo &raquo;</a>", data.NextMonth)
	b.WriteString("</div>")
}

func writeDefaultsSection(b *strings.Builder, data PageData) {
	b.WriteString("<section class=\"card\"><h2>Meta padr&atilde;o por dia &uacute;til</h2>")
	if len(data.Machines) == 0 {
		b.WriteString("<p class=\"empty\">Cadastre m&aacute;quinas na <a href=\"/wip/structure\">Estrutura</a> primeiro.</p></section>")
		return
	}
	b.WriteString("<table class=\"grid\"><thead><tr><th>M&aacute;quina</th><th>Setor</th><th>Meta di&aacute;ria (h)</th><th></th></tr></thead><tbody>")
	for _, m := range data.Machines {
		b.WriteString("<tr><form method=\"post\" action=\"/wip/targets/defaults\">")
		fmt.Fprintf(b, "<input type=\"hidden\" name=\"month\" value=%q>", data.MonthStart)
		fmt.Fprintf(b, "<input type=\"hidden\" name=\"machine_id\" value=\"%d\">", m.ID)
		inactive := ""
		if !m.IsActive {
			inactive = " <span class=\"badge\">inativa</span>"
		}
		fmt.Fprintf(b, "<td>%s - %s%s</td>", html.E(m.Code), html.E(m.NameDisplay), inactive)
		fmt.Fprintf(b, "<td>%s</td>", html.E(m.SectorName))
		fmt.Fprintf(b, "<td><input type=\"text\" name=\"daily_target\" value=%q inputmode=\"decimal\"></td>", formatHours(data.Defaults[m.ID]))
		b.WriteString("<td><button type=\"submit\">Salvar</button></td>")
		b.WriteString("</form></tr>")
	}
	b.WriteString("</tbody></table>")

	b.WriteString("<form method=\"post\" action=\"/wip/targets/copy\" class=\"inline\">")
	fmt.Fprintf(b, "<input type=\"hidden\" name=\"month\" value=%q>", data.MonthStart)
	fmt.Fprintf(b, "<input type=\"hidden\" name=\"source_month\" value=%q>", data.PrevMonth)
	fmt.Fprintf(b, "<button type=\"submit\">Copiar metas de %s</button></form>", html.E(monthLabel(data.PrevMonth)))
	b.WriteString("</section>")
}

func writeOverridesSection(b *strings.Builder, data PageData) {
	b.WriteString("<section class=\"card\"><h2>Exce&ccedil;&otilde;es por dia</h2>")
	b.WriteString("<p class=\"hint\">Uma exce&ccedil;&atilde;o vale mesmo em fim de semana e mesmo com valor zero.</p>")

	if len(data.Overrides) > 0 {
		b.WriteString("<table class=\"grid\"><thead><tr><th>Dia</th><th>M&aacute;quina</th><th>Meta (h)</th><th></th></tr></thead><tbody>")
		for _, ov := range data.Overrides {
			b.WriteString("<tr>")
			fmt.Fprintf(b, "<td>%s</td>", html.E(ov.Day))
			fmt.Fprintf(b, "<td>%s</td>", html.E(data.MachineLabel[ov.MachineID]))
			fmt.Fprintf(b, "<td>%s</td>", formatHours(ov.TargetHours))
			b.WriteString("<td><form method=\"post\" action=\"/wip/targets/daily/delete\">")
			fmt.Fprintf(b, "<input type=\"hidden\" name=\"day\" value=%q>", ov.Day)
			fmt.Fprintf(b, "<input type=\"hidden\" name=\"machine_id\" value=\"%d\">", ov.MachineID)
			b.WriteString("<button type=\"submit\" class=\"danger\">Remover</button></form></td>")
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody></table>")
	} else {
		b.WriteString("<p class=\"empty\">Nenhuma exce&ccedil;&atilde;o neste m&ecirc;s.</p>")
	}

	b.WriteString("<form method=\"post\" action=\"/wip/targets/daily\" class=\"inline\">")
	fmt.Fprintf(b, "<input type=\"date\" name=\"day\" min=%q max=%q required>", data.MonthStart, monthEndOf(data.MonthStart))
	b.WriteString("<select name=\"machine_id\">")
	for _, m := range data.Machines {
		fmt.Fprintf(b, "<option value=\"%d\">%s</option>", m.ID, html.E(m.Code))
	}
	b.WriteString("</select>")
	b.WriteString("<input type=\"text\" name=\"target_hours\" placeholder=\"Horas\" inputmode=\"decimal\" required>")
	b.WriteString("<button type=\"submit\">Adicionar exce&ccedil;&atilde;o</button></form>")

	b.WriteString("<form method=\"post\" action=\"/wip/targets/zero-day\" class=\"inline\">")
	fmt.Fprintf(b, "<input type=\"date\" name=\"day\" min=%q max=%q required>", data.MonthStart, monthEndOf(data.MonthStart))
	b.WriteString("<button type=\"submit\" class=\"danger\">Zerar dia para todas</button></form>")
	b.WriteString("</section>")
}

func monthLabel(monthStart string) string {
	if len(monthStart) >= 7 {
		return monthStart[5:7] + "/" + monthStart[:4]
	}
	return monthStart
}

func formatHours(v float64) string {
	if v == 0 {
		return "0"
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
