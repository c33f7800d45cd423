package walker

import (
	"strings"
	"testing"

	"github.com/foomo/topbar/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback(t *testing.T) {
	w := newTestWalker(t)

	expected := "<ul class=\"right\">\n" +
		"<li class=\"menu-item\">\n<a href=\"/\">Home</a>\n</li>\n" +
		"</ul>"
	assert.Equal(t, expected, w.Fallback(false))
}

func TestFallbackCanManage(t *testing.T) {
	w := newTestWalker(t, WithHomeURL("https://example.com/"), WithMenuEditorURL("https://example.com/admin/nav-menus"))

	doc := parse(t, w.Fallback(true))
	require.Equal(t, 1, doc.Find("ul.right").Length())
	links := doc.Find("ul.right > li.menu-item > a")
	require.Equal(t, 2, links.Length())
	assert.Equal(t, "Home", links.Eq(0).Text())
	href, _ := links.Eq(0).Attr("href")
	assert.Equal(t, "https://example.com/", href)
	assert.Equal(t, "Customise Menu", links.Eq(1).Text())
	href, _ = links.Eq(1).Attr("href")
	assert.Equal(t, "https://example.com/admin/nav-menus", href)
}

func TestRenderFallback(t *testing.T) {
	w := newTestWalker(t)

	out, fallback := w.Render(nil, &menu.Args{MenuID: "primary"}, false)
	assert.True(t, fallback)
	assert.Equal(t, 1, strings.Count(out, "<ul"))
	assert.Contains(t, out, "Home")
	assert.NotContains(t, out, "Customise Menu")

	out, fallback = w.Render([]*menu.Item{}, nil, true)
	assert.True(t, fallback)
	assert.Contains(t, out, "Customise Menu")
}
