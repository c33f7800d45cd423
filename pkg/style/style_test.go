package style

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var showing = Env{AdminBarShowing: true}

func TestStickyRender(t *testing.T) {
	expected := "<style type=\"text/css\">\n\t" +
		"body.admin-bar #wpadminbar { position: fixed; }\n\t" +
		"body.admin-bar { padding-top: 46px; }\n\t" +
		"body.admin-bar .sticky.fixed { margin-top: 46px; }\n\t" +
		"@media ( min-width: 780px ) { body.admin-bar .sticky.fixed { margin-top: 32px; } }\n\t" +
		"@media ( min-width: 780px ) { body.admin-bar { padding-top: 32px; } }\n\t" +
		"</style>\n"
	assert.Equal(t, expected, New(ModeSticky).Render(showing))
}

func TestFixedRender(t *testing.T) {
	out := New(ModeFixed, WithHeight("45px")).Render(showing)
	assert.True(t, strings.HasPrefix(out, "<style type=\"text/css\">\n\tbody.admin-bar #wpadminbar { position: fixed; }\n\t"))
	assert.Contains(t, out, "body.admin-bar .fixed { margin-top: 46px; }")
	assert.Contains(t, out, "@media ( min-width: 780px ) { body.admin-bar .fixed { margin-top: 32px; }")
	assert.Equal(t, 2, strings.Count(out, "body.admin-bar .fixed + div { margin-top: 45px; }"))
	assert.NotContains(t, out, ".sticky")
}

func TestFixedDefaultHeight(t *testing.T) {
	i := New(ModeFixed, WithHeight(""))
	assert.Equal(t, DefaultHeight, i.Height())
	assert.Contains(t, i.Render(showing), "margin-top: 40px;")
}

func TestRenderConditions(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		env  Env
		want bool
	}{
		{name: "sticky front end", mode: ModeSticky, env: Env{AdminBarShowing: true}, want: true},
		{name: "fixed front end", mode: ModeFixed, env: Env{AdminBarShowing: true}, want: true},
		{name: "no admin bar", mode: ModeSticky, env: Env{}, want: false},
		{name: "admin area", mode: ModeSticky, env: Env{Admin: true, AdminBarShowing: true}, want: false},
		{name: "disabled", mode: ModeNone, env: Env{AdminBarShowing: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := New(tt.mode)
			out := i.Render(tt.env)
			assert.Equal(t, tt.want, i.SuppressesAdminBarBump(tt.env))
			if tt.want {
				assert.Contains(t, out, "46px;")
				assert.Contains(t, out, "@media ( min-width: 780px )")
				assert.Contains(t, out, "32px;")
			} else {
				assert.Empty(t, out)
			}
		})
	}
}

func TestComponent(t *testing.T) {
	i := New(ModeSticky)
	var sb strings.Builder
	require.NoError(t, i.Component(showing).Render(context.Background(), &sb))
	assert.Equal(t, i.Render(showing), sb.String())

	sb.Reset()
	require.NoError(t, i.Component(Env{}).Render(context.Background(), &sb))
	assert.Empty(t, sb.String())
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeNone, ModeSticky, ModeFixed} {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	_, err := ParseMode("floating")
	assert.Error(t, err)
}
