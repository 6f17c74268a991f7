package aliases

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"prodmetas/frontend/shared/html"
	"prodmetas/models"
)

func AliasesPage(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(html.Flash(data.Message))
		b.WriteString("<h1>Apelidos de m&aacute;quina</h1>")

		if data.BatchID == "" {
			b.WriteString("<p class=\"empty\">Nenhum lote carregado. <a href=\"/wip/import\">Importe uma planilha</a> para come&ccedil;ar.</p>")
		} else {
			writeBatchPanel(&b, data)
		}

		writeConfiguredTable(&b, data)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return html.Page("Apelidos", "/wip/aliases", body)
}

func writeBatchPanel(b *strings.Builder, data PageData) {
	fmt.Fprintf(b, "<section class=\"card\"><h2>Lote %s</h2>", html.E(shortID(data.BatchID)))
	fmt.Fprintf(b, "<p>Refer&ecirc;ncia %s &middot; %d linhas &middot; status %s</p>",
		html.E(data.Batch.RefDate), data.Batch.RowCount, html.E(data.Batch.Status))

	if data.Batch.Status == models.BatchReady || len(data.Pending) == 0 {
		b.WriteString("<p class=\"ok\">Todas as categorias deste lote est&atilde;o mapeadas.</p>")
		fmt.Fprintf(b, "<form method=\"post\" action=\"/wip/aliases/reprocess\"><input type=\"hidden\" name=\"batch_id\" value=%q><button type=\"submit\">Reprocessar</button></form>", data.BatchID)
		b.WriteString("</section>")
		return
	}

	fmt.Fprintf(b, "<p class=\"warn\">%d categorias sem m&aacute;quina. Mapeie cada uma abaixo.</p>", len(data.Pending))
	b.WriteString("<table class=\"grid\"><thead><tr><th>Categoria</th><th>Horas</th><th>Per&iacute;odo</th><th>Mapear para</th></tr></thead><tbody>")
	for _, p := range data.Pending {
		b.WriteString("<tr>")
		fmt.Fprintf(b, "<td><strong>%s</strong><br><span class=\"hint\">%s</span></td>", html.E(p.AliasNorm), html.E(p.MachineRaw))
		fmt.Fprintf(b, "<td>%.2f (%d linhas)</td>", p.HoursTotal, p.RowCount)
		fmt.Fprintf(b, "<td>%s a %s</td>", html.E(p.DayMin), html.E(p.DayMax))
		b.WriteString("<td>")
		writeMappingForm(b, data, p)
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table></section>")
}

func writeMappingForm(b *strings.Builder, data PageData, p PendingAlias) {
	suggested := SuggestCanonical(p.MachineRaw)

	b.WriteString("<form method=\"post\" action=\"/wip/aliases/apply\" class=\"mapform\">")
	fmt.Fprintf(b, "<input type=\"hidden\" name=\"batch_id\" value=%q>", data.BatchID)
	fmt.Fprintf(b, "<input type=\"hidden\" name=\"alias_raw\" value=%q>", p.MachineRaw)
	fmt.Fprintf(b, "<input type=\"hidden\" name=\"alias_norm\" value=%q>", p.AliasNorm)

	b.WriteString("<label><input type=\"radio\" name=\"mode\" value=\"existing\" checked> M&aacute;quina existente</label>")
	b.WriteString("<select name=\"machine_id\">")
	for _, m := range data.Machines {
		fmt.Fprintf(b, "<option value=\"%d\">%s (%s)</option>", m.ID, html.E(m.Code), html.E(m.SectorName))
	}
	b.WriteString("</select>")

	b.WriteString("<label><input type=\"radio\" name=\"mode\" value=\"create\"> Criar m&aacute;quina</label>")
	b.WriteString("<select name=\"sector_id\">")
	for _, s := range data.Sectors {
		fmt.Fprintf(b, "<option value=\"%d\">%s</option>", s.ID, html.E(s.Name))
	}
	b.WriteString("</select>")
	fmt.Fprintf(b, "<input type=\"text\" name=\"code\" value=%q placeholder=\"C&oacute;digo\">", suggested)
	fmt.Fprintf(b, "<input type=\"text\" name=\"name_display\" value=%q placeholder=\"Nome\">", suggested)

	b.WriteString("<button type=\"submit\">Aplicar</button></form>")
}

func writeConfiguredTable(b *strings.Builder, data PageData) {
	b.WriteString("<h2>Apelidos configurados</h2>")
	if len(data.Configured) == 0 {
		b.WriteString("<p class=\"empty\">Nenhum apelido configurado.</p>")
		return
	}
	b.WriteString("<table class=\"grid\"><thead><tr><th>Apelido</th><th>M&aacute;quina</th><th>Setor</th><th>Criado em</th><th></th><th></th></tr></thead><tbody>")
	for _, c := range data.Configured {
		b.WriteString("<tr>")
		fmt.Fprintf(b, "<td><strong>%s</strong><br><span class=\"hint\">%s</span></td>", html.E(c.AliasNorm), html.E(c.AliasRaw))
		b.WriteString("<td><form method=\"post\" action=\"/wip/aliases/configured\">")
		fmt.Fprintf(b, "<input type=\"hidden\" name=\"alias_norm\" value=%q>", c.AliasNorm)
		fmt.Fprintf(b, "<input type=\"hidden\" name=\"alias_raw\" value=%q>", c.AliasRaw)
		b.WriteString("<select name=\"machine_id\">")
		for _, m := range data.Machines {
			selected := ""
			if m.ID == c.MachineID {
				selected = " selected"
			}
			fmt.Fprintf(b, "<option value=\"%d\"%s>%s (%s)</option>", m.ID, selected, html.E(m.Code), html.E(m.SectorName))
		}
		b.WriteString("</select></td>")
		fmt.Fprintf(b, "<td>%s</td>", html.E(c.SectorName))
		fmt.Fprintf(b, "<td>%s</td>", html.E(c.CreatedAt))
		b.WriteString("<td><button type=\"submit\">Salvar</button></form></td>")
		fmt.Fprintf(b, "<td><form method=\"post\" action=\"/wip/aliases/delete\"><input type=\"hidden\" name=\"id\" value=\"%d\"><button type=\"submit\" class=\"danger\">Remover</button></form></td>", c.ID)
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
