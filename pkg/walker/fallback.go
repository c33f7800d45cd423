package walker

import (
	"strings"

	"github.com/a-h/templ"
)

// Fallback is rendered when no menu is assigned. The link to the menu editor
// is only offered to callers that may manage menus.
func (w *Walker) Fallback(canManage bool) string {
	var sb strings.Builder
	sb.WriteString("<ul class=\"right\">\n")
	writeFallbackItem(&sb, w.homeURL, "Home")
	if canManage {
		writeFallbackItem(&sb, w.menuEditorURL, "Customise Menu")
	}
	sb.WriteString("</ul>")
	return sb.String()
}

func writeFallbackItem(sb *strings.Builder, url, label string) {
	sb.WriteString("<li class=\"menu-item\">\n")
	sb.WriteString(`<a href="` + templ.EscapeString(url) + `">` + label + "</a>\n")
	sb.WriteString("</li>\n")
}
