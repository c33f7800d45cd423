package walker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/foomo/topbar/menu"
	"go.uber.org/zap"
)

const (
	// Divider precedes every top level item
	Divider = `<li class="divider"></li>`

	ClassActive      = "active"
	ClassHasDropdown = "has-dropdown"
)

// Walker renders menu items as Foundation Top Bar markup. It only holds
// configuration and may be shared between goroutines.
type Walker struct {
	l             *zap.Logger
	homeURL       string
	menuEditorURL string
	classFilter   ClassFilter
	titleFilter   TitleFilter
	itemFilter    ItemFilter
	resolver      Resolver
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, opts ...Option) *Walker {
	inst := &Walker{
		l:             l.Named("walker"),
		homeURL:       "/",
		menuEditorURL: "/admin/nav-menus",
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Walk renders the items depth first. Children are rendered while
// args.MaxDepth is 0 or larger than their depth, a negative MaxDepth renders
// every item flat.
func (w *Walker) Walk(items []*menu.Item, args *menu.Args) string {
	if len(items) == 0 {
		return ""
	}
	args = args.WithDefaults()

	var sb strings.Builder
	if args.MaxDepth < 0 {
		for _, item := range items {
			w.displayElement(&sb, item, nil, 1, 0, args)
		}
		return sb.String()
	}

	var (
		top         []*menu.Item
		children    = map[int][]*menu.Item{}
		parentOrder []int
		rootID      = menu.RootID
	)
	if first := firstItem(items); first != nil && !hasRootItems(items) {
		// no item hangs off the root, the first item's parent is the root
		rootID = first.ParentID
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		if item.ParentID == rootID {
			top = append(top, item)
			continue
		}
		if _, ok := children[item.ParentID]; !ok {
			parentOrder = append(parentOrder, item.ParentID)
		}
		children[item.ParentID] = append(children[item.ParentID], item)
	}

	for _, item := range top {
		w.displayElement(&sb, item, children, args.MaxDepth, 0, args)
	}

	// orphans are only shown when every level is rendered
	if args.MaxDepth == 0 && len(children) > 0 {
		for _, parentID := range parentOrder {
			orphans, ok := children[parentID]
			if !ok {
				continue
			}
			w.l.Debug("rendering orphaned menu items", zap.Int("parent", parentID), zap.Int("count", len(orphans)))
			for _, orphan := range orphans {
				w.displayElement(&sb, orphan, nil, 1, 0, args)
			}
		}
	}

	return sb.String()
}

// Render runs the menu pipeline: walked items wrapped in args.ItemsWrap, or
// the fallback when there is nothing to show. No container element is
// rendered around the list.
func (w *Walker) Render(items []*menu.Item, args *menu.Args, canManage bool) (html string, fallback bool) {
	args = args.WithDefaults()
	if len(items) == 0 {
		return w.Fallback(canManage), true
	}
	walked := w.Walk(items, args)
	return fmt.Sprintf(args.ItemsWrap, templ.EscapeString(args.MenuID), templ.EscapeString(args.MenuClass), walked), false
}

// Annotate returns a copy of the item carrying the Top Bar state classes
func Annotate(item *menu.Item, hasChildren bool) *menu.Item {
	el := item.Clone()
	if item.Current || item.CurrentAncestor {
		el.Classes = append(el.Classes, ClassActive)
	}
	if hasChildren {
		el.Classes = append(el.Classes, ClassHasDropdown)
	}
	return el
}

// OpenLevel starts a dropdown below an item at depth
func OpenLevel(depth int) string {
	return "\n" + indent(depth) + "<ul class=\"sub-menu dropdown\">\n"
}

// CloseLevel ends a dropdown below an item at depth
func CloseLevel(depth int) string {
	return indent(depth) + "</ul>\n"
}

// StartElement renders the opening list item and its link
func (w *Walker) StartElement(item *menu.Item, depth int, args *menu.Args) string {
	if args == nil {
		args = menu.NewArgs()
	}
	var sb strings.Builder
	if depth == 0 {
		sb.WriteString(Divider)
	}
	sb.WriteString(indent(depth))
	sb.WriteString(`<li id="menu-item-`)
	sb.WriteString(strconv.Itoa(item.ID))
	sb.WriteString(`" class="`)
	sb.WriteString(templ.EscapeString(strings.Join(w.classNames(item, args), " ")))
	sb.WriteString(`">`)

	var fragment string
	if item.IsPageObject() {
		item = w.resolve(item)
		fragment = "<a" + Attributes(item) + ">" + w.title(item.Title, item.ID) + "</a>"
	} else {
		fragment = args.Before +
			"<a" + Attributes(item) + ">" +
			args.LinkBefore + w.title(item.Title, item.ID) + args.LinkAfter +
			"</a>" +
			args.After
	}
	if w.itemFilter != nil {
		fragment = w.itemFilter(fragment, item, depth, args, item.ID)
	}
	sb.WriteString(fragment)
	return sb.String()
}

// EndElement closes a list item
func EndElement() string {
	return "</li>\n"
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (w *Walker) displayElement(sb *strings.Builder, item *menu.Item, children map[int][]*menu.Item, maxDepth, depth int, args *menu.Args) {
	if item == nil {
		return
	}
	kids := children[item.ID]
	descend := len(kids) > 0 && (maxDepth == 0 || maxDepth > depth+1)
	if descend {
		// claimed before descending so repeated ids cannot loop
		delete(children, item.ID)
	}

	sb.WriteString(w.StartElement(Annotate(item, descend), depth, args))
	if descend {
		sb.WriteString(OpenLevel(depth))
		for _, kid := range kids {
			w.displayElement(sb, kid, children, maxDepth, depth+1, args)
		}
		sb.WriteString(CloseLevel(depth))
	}
	sb.WriteString(EndElement())
}

func (w *Walker) classNames(item *menu.Item, args *menu.Args) []string {
	var (
		classes = make([]string, 0, len(item.Classes)+1)
		seen    = make(map[string]bool, len(item.Classes)+1)
	)
	add := func(class string) {
		if class == "" || seen[class] {
			return
		}
		seen[class] = true
		classes = append(classes, class)
	}
	for _, class := range item.Classes {
		add(class)
	}
	add("menu-item-" + strconv.Itoa(item.ID))
	if w.classFilter != nil {
		classes = w.classFilter(classes, item, args)
	}
	return classes
}

func (w *Walker) title(title string, id int) string {
	if w.titleFilter != nil {
		return w.titleFilter(title, id)
	}
	return title
}

func (w *Walker) resolve(item *menu.Item) *menu.Item {
	resolved := item.Clone()
	if w.resolver == nil {
		return resolved
	}
	resolved.URL, resolved.Title = w.resolver.Resolve(item.ContentID())
	if resolved.URL == "" && resolved.Title == "" {
		w.l.Debug("page object did not resolve", zap.Int("id", item.ID), zap.Int("object", item.ContentID()))
	}
	return resolved
}

func firstItem(items []*menu.Item) *menu.Item {
	for _, item := range items {
		if item != nil {
			return item
		}
	}
	return nil
}

func hasRootItems(items []*menu.Item) bool {
	for _, item := range items {
		if item != nil && item.ParentID == menu.RootID {
			return true
		}
	}
	return false
}

func indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(menu.Indent, depth)
}
