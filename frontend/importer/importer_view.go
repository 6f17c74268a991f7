package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"prodmetas/frontend/shared/html"
	"prodmetas/models"
)

func ImportPage(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(html.Flash(data.Message))
		b.WriteString("<h1>Importar WIP</h1>")
		b.WriteString("<section class=\"card\">")
		b.WriteString("<form method=\"post\" action=\"/wip/import\" enctype=\"multipart/form-data\">")
		b.WriteString("<label for=\"wip_file\">Planilha WIP (.xlsx)</label>")
		b.WriteString("<input type=\"file\" id=\"wip_file\" name=\"wip_file\" accept=\".xlsx\" required>")
		b.WriteString("<button type=\"submit\">Enviar</button>")
		b.WriteString("</form>")
		b.WriteString("<p class=\"hint\">A planilha precisa das colunas \"Data do WIP\", \"Al&iacute;quota\" e \"Categoria\". Dias j&aacute; carregados no m&ecirc;s s&atilde;o substitu&iacute;dos.</p>")
		b.WriteString("</section>")

		b.WriteString("<h2>Envios recentes</h2>")
		if len(data.Batches) == 0 {
			b.WriteString("<p class=\"empty\">Nenhum envio ainda.</p>")
		} else {
			b.WriteString("<table class=\"grid\"><thead><tr>")
			b.WriteString("<th>Enviado em</th><th>Refer&ecirc;ncia</th><th>Linhas</th><th>Status</th><th></th>")
			b.WriteString("</tr></thead><tbody>")
			for _, batch := range data.Batches {
				b.WriteString("<tr>")
				fmt.Fprintf(&b, "<td>%s</td>", html.E(batch.CreatedAt))
				fmt.Fprintf(&b, "<td>%s</td>", html.E(batch.RefDate))
				fmt.Fprintf(&b, "<td>%d</td>", batch.RowCount)
				fmt.Fprintf(&b, "<td>%s</td>", statusBadge(batch.Status, batch.UnresolvedCount))
				if batch.Status == models.BatchNeedsAlias {
					fmt.Fprintf(&b, "<td><a href=\"/wip/aliases?batch_id=%s\">Mapear</a></td>", html.E(batch.ID))
				} else {
					b.WriteString("<td></td>")
				}
				b.WriteString("</tr>")
			}
			b.WriteString("</tbody></table>")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
	return html.Page("Importar", "/wip/import", body)
}

func statusBadge(status string, unresolved int64) string {
	switch status {
	case models.BatchReady:
		return "<span class=\"badge ok\">pronto</span>"
	case models.BatchNeedsAlias:
		return fmt.Sprintf("<span class=\"badge warn\">%d apelidos pendentes</span>", unresolved)
	case models.BatchError:
		return "<span class=\"badge err\">erro</span>"
	default:
		return "<span class=\"badge\">" + html.E(status) + "</span>"
	}
}
