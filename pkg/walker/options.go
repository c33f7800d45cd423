package walker

import (
	"github.com/foomo/topbar/menu"
)

type (
	// ClassFilter may rewrite the class list of an item before serialization
	ClassFilter func(classes []string, item *menu.Item, args *menu.Args) []string
	// TitleFilter produces the displayed title, escaping is its job
	TitleFilter func(title string, id int) string
	// ItemFilter may replace the composed link fragment of an item
	ItemFilter func(fragment string, item *menu.Item, depth int, args *menu.Args, id int) string
	// Resolver looks up url and title of a content object
	Resolver interface {
		Resolve(id int) (url, title string)
	}
	// ResolverFunc adapts a function to Resolver
	ResolverFunc func(id int) (url, title string)

	Option func(*Walker)
)

func (f ResolverFunc) Resolve(id int) (string, string) {
	return f(id)
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithClassFilter(v ClassFilter) Option {
	return func(o *Walker) {
		o.classFilter = v
	}
}

func WithTitleFilter(v TitleFilter) Option {
	return func(o *Walker) {
		o.titleFilter = v
	}
}

func WithItemFilter(v ItemFilter) Option {
	return func(o *Walker) {
		o.itemFilter = v
	}
}

func WithResolver(v Resolver) Option {
	return func(o *Walker) {
		o.resolver = v
	}
}

func WithHomeURL(v string) Option {
	return func(o *Walker) {
		o.homeURL = v
	}
}

func WithMenuEditorURL(v string) Option {
	return func(o *Walker) {
		o.menuEditorURL = v
	}
}
