package walker

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/foomo/topbar/menu"
)

// Attributes builds the anchor attributes of an item in the order title,
// target, rel, href. Empty values are left out.
func Attributes(item *menu.Item) string {
	var sb strings.Builder
	writeAttribute(&sb, "title", item.AttrTitle)
	writeAttribute(&sb, "target", item.Target)
	writeAttribute(&sb, "rel", item.XFN)
	writeAttribute(&sb, "href", item.URL)
	return sb.String()
}

func writeAttribute(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	sb.WriteString(" ")
	sb.WriteString(name)
	sb.WriteString(`="`)
	sb.WriteString(templ.EscapeString(value))
	sb.WriteString(`"`)
}
