package html

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// E escapes text for interpolation into HTML.
func E(s string) string {
	return templ.EscapeString(s)
}

type navItem struct {
	href  string
	label string
}

var navItems = []navItem{
	{"/wip/import", "Importar"},
	{"/wip/aliases", "Apelidos"},
	{"/wip/structure", "Estrutura"},
	{"/wip/targets", "Metas"},
	{"/wip/results", "Resultados"},
}

// Page wraps a screen body in the shared document layout with the top nav.
// active selects the highlighted nav entry by href.
func Page(title, active string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!doctype html><html lang=\"pt-BR\"><head><meta charset=\"utf-8\">")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		fmt.Fprintf(&b, "<title>%s - ProdMetas</title>", E(title))
		b.WriteString("<link rel=\"stylesheet\" href=\"/assets/app.css\"></head><body>")
		b.WriteString("<nav class=\"topnav\"><span class=\"brand\">ProdMetas</span>")
		for _, item := range navItems {
			cls := "navlink"
			if item.href == active {
				cls = "navlink active"
			}
			fmt.Fprintf(&b, "<a class=%q href=%q>%s</a>", cls, item.href, E(item.label))
		}
		b.WriteString("</nav><main class=\"content\">")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</main></body></html>")
		return err
	})
}

// Flash renders the one-shot status banner handlers pass via ?status=.
func Flash(message string) string {
	if message == "" {
		return ""
	}
	return "<div class=\"flash\">" + E(message) + "</div>"
}
