package structure

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"prodmetas/frontend/shared/html"
)

func StructurePage(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(html.Flash(data.Message))
		b.WriteString("<h1>Estrutura</h1>")

		writeSectorsSection(&b, data)
		writeMachinesSection(&b, data)

		_, err := io.WriteString(w, b.String())
		return err
	})
	return html.Page("Estrutura", "/wip/structure", body)
}

func writeSectorsSection(b *strings.Builder, data PageData) {
	b.WriteString("<section class=\"card\"><h2>Setores</h2>")
	if len(data.Sectors) == 0 {
		b.WriteString("<p class=\"empty\">Nenhum setor cadastrado.</p>")
	} else {
		b.WriteString("<table class=\"grid\"><thead><tr><th>Nome</th><th>Ordem</th><th></th></tr></thead><tbody>")
		for _, s := range data.Sectors {
			b.WriteString("<tr><form method=\"post\" action=\"/wip/structure/sectors/update\">")
			fmt.Fprintf(b, "<input type=\"hidden\" name=\"id\" value=\"%d\">", s.ID)
			fmt.Fprintf(b, "<td><input type=\"text\" name=\"name\" value=%q required></td>", s.Name)
			fmt.Fprintf(b, "<td><input type=\"number\" name=\"sort_order\" value=\"%d\"></td>", s.SortOrder)
			b.WriteString("<td><button type=\"submit\">Salvar</button></td>")
			b.WriteString("</form></tr>")
		}
		b.WriteString("</tbody></table>")
	}
	b.WriteString("<form method=\"post\" action=\"/wip/structure/sectors\" class=\"inline\">")
	b.WriteString("<input type=\"text\" name=\"name\" placeholder=\"Novo setor\" required>")
	b.WriteString("<input type=\"number\" name=\"sort_order\" value=\"0\">")
	b.WriteString("<button type=\"submit\">Adicionar setor</button></form>")
	b.WriteString("</section>")
}

func writeMachinesSection(b *strings.Builder, data PageData) {
	b.WriteString("<section class=\"card\"><h2>M&aacute;quinas</h2>")
	if len(data.Machines) == 0 {
		b.WriteString("<p class=\"empty\">Nenhuma m&aacute;quina cadastrada.</p>")
	} else {
		b.WriteString("<table class=\"grid\"><thead><tr><th>C&oacute;digo</th><th>Nome</th><th>Setor</th><th>Ativa</th><th>Ordem</th><th></th></tr></thead><tbody>")
		for _, m := range data.Machines {
			b.WriteString("<tr><form method=\"post\" action=\"/wip/structure/machines/update\">")
			fmt.Fprintf(b, "<input type=\"hidden\" name=\"id\" value=\"%d\">", m.ID)
			fmt.Fprintf(b, "<td><input type=\"text\" name=\"code\" value=%q required></td>", m.Code)
			fmt.Fprintf(b, "<td><input type=\"text\" name=\"name_display\" value=%q required></td>", m.NameDisplay)
			b.WriteString("<td><select name=\"sector_id\">")
			for _, s := range data.Sectors {
				selected := ""
				if s.ID == m.SectorID {
					selected = " selected"
				}
				fmt.Fprintf(b, "<option value=\"%d\"%s>%s</option>", s.ID, selected, html.E(s.Name))
			}
			b.WriteString("</select></td>")
			checked := ""
			if m.IsActive {
				checked = " checked"
			}
			fmt.Fprintf(b, "<td><input type=\"checkbox\" name=\"is_active\"%s></td>", checked)
			fmt.Fprintf(b, "<td><input type=\"number\" name=\"sort_order\" value=\"%d\"></td>", m.SortOrder)
			b.WriteString("<td><button type=\"submit\">Salvar</button></td>")
			b.WriteString("</form></tr>")
		}
		b.WriteString("</tbody></table>")
	}
	b.WriteString("<form method=\"post\" action=\"/wip/structure/machines\" class=\"inline\">")
	b.WriteString("<select name=\"sector_id\">")
	for _, s := range data.Sectors {
		fmt.Fprintf(b, "<option value=\"%d\">%s</option>", s.ID, html.E(s.Name))
	}
	b.WriteString("</select>")
	b.WriteString("<input type=\"text\" name=\"code\" placeholder=\"C&oacute;digo\" required>")
	b.WriteString("<input type=\"text\" name=\"name_display\" placeholder=\"Nome\" required>")
	b.WriteString("<input type=\"number\" name=\"sort_order\" value=\"0\">")
	b.WriteString("<button type=\"submit\">Adicionar m&aacute;quina</button></form>")
	b.WriteString("</section>")
}
