package style

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// DefaultHeight of a Foundation top bar
const DefaultHeight = "40px"

type (
	// Env request state the fix depends on
	Env struct {
		Admin           bool `json:"admin"`           // request targets the admin area
		AdminBarShowing bool `json:"adminBarShowing"` // admin bar is rendered
	}
	// Injector emits the inline style compensating the admin bar height
	Injector struct {
		mode   Mode
		height string
	}
	Option func(*Injector)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(mode Mode, opts ...Option) *Injector {
	inst := &Injector{
		mode:   mode,
		height: DefaultHeight,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithHeight top bar height, only used in fixed mode
func WithHeight(v string) Option {
	return func(o *Injector) {
		if v != "" {
			o.height = v
		}
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (i *Injector) Mode() Mode {
	return i.mode
}

func (i *Injector) Height() string {
	return i.height
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// SuppressesAdminBarBump the host must drop its own admin bar offset style
// whenever this one is rendered
func (i *Injector) SuppressesAdminBarBump(env Env) bool {
	return i.mode != ModeNone && !env.Admin && env.AdminBarShowing
}

// Render returns the style block or an empty string
func (i *Injector) Render(env Env) string {
	if !i.SuppressesAdminBarBump(env) {
		return ""
	}

	lines := []string{
		"body.admin-bar #wpadminbar { position: fixed; }",
	}
	switch i.mode {
	case ModeSticky:
		lines = append(lines,
			"body.admin-bar { padding-top: 46px; }",
			"body.admin-bar .sticky.fixed { margin-top: 46px; }",
			"@media ( min-width: 780px ) { body.admin-bar .sticky.fixed { margin-top: 32px; } }",
			"@media ( min-width: 780px ) { body.admin-bar { padding-top: 32px; } }",
		)
	case ModeFixed:
		lines = append(lines,
			"body.admin-bar .fixed { margin-top: 46px; } body.admin-bar .fixed + div { margin-top: "+i.height+"; } body.admin-bar .fixed.expanded { margin-top: 0; }",
			"@media ( min-width: 780px ) { body.admin-bar .fixed { margin-top: 32px; } body.admin-bar .fixed + div { margin-top: "+i.height+"; } body.admin-bar .fixed.expanded { margin-top: 0; } }",
		)
	}

	var sb strings.Builder
	sb.WriteString("<style type=\"text/css\">\n\t")
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n\t")
	}
	sb.WriteString("</style>\n")
	return sb.String()
}

// Component renders the style block into a templ page head
func (i *Injector) Component(env Env) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, i.Render(env))
		return err
	})
}
