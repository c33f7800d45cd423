package walker

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/foomo/topbar/menu"
)

// Component renders the menu pipeline into templ pages
func (w *Walker) Component(items []*menu.Item, args *menu.Args, canManage bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, wr io.Writer) error {
		html, _ := w.Render(items, args, canManage)
		_, err := io.WriteString(wr, html)
		return err
	})
}

// FallbackComponent renders only the fallback list
func (w *Walker) FallbackComponent(canManage bool) templ.Component {
	return templ.Raw(w.Fallback(canManage))
}
