package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocument = "../pkg/repo/mock/menus-ok.json"

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestRenderCommand(t *testing.T) {
	out := execute(t, "render", testDocument, "--location", "primary", "--uri", "/about/jobs", "--groups", "staff")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("ul.menu").Length())
	assert.True(t, doc.Find("#menu-item-4").HasClass("active"))
	assert.True(t, doc.Find("#menu-item-4").HasClass("has-dropdown"))
	assert.Equal(t, 1, doc.Find("#menu-item-6").Length())
	assert.Equal(t, "About us", doc.Find("#menu-item-2 > a").Text())
}

func TestRenderCommandFlat(t *testing.T) {
	out := execute(t, "render", testDocument, "--max-depth=-1")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find("ul.dropdown").Length())
	assert.Equal(t, 6, doc.Find("li.divider").Length())
}

func TestRenderCommandFallback(t *testing.T) {
	out := execute(t, "render", testDocument, "--location", "sidebar", "--groups", "manage_options", "--menu-editor-url", "/cms/menus")
	assert.Contains(t, out, `<ul class="right">`)
	assert.Contains(t, out, `<a href="/cms/menus">Customise Menu</a>`)
	assert.True(t, strings.HasSuffix(out, "</ul>\n"))
}

func TestRenderCommandMissingFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"render", "does-not-exist.json"})
	require.Error(t, cmd.Execute())
}

func TestStyleCommand(t *testing.T) {
	out := execute(t, "style", "--admin-bar")
	assert.True(t, strings.HasPrefix(out, `<style type="text/css">`))
	assert.Contains(t, out, "body.admin-bar .sticky.fixed { margin-top: 46px; }")

	out = execute(t, "style", "--admin-bar", "--style-mode", "fixed", "--style-height", "55px")
	assert.Contains(t, out, "body.admin-bar .fixed + div { margin-top: 55px; }")

	out = execute(t, "style", "--admin-bar", "--admin")
	assert.Empty(t, out)
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "latest\n", execute(t, "version"))
}
