package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/foomo/topbar/client"
	"github.com/foomo/topbar/pkg/handler"
	"github.com/foomo/topbar/pkg/repo"
	"github.com/foomo/topbar/pkg/repo/mock"
	"github.com/foomo/topbar/pkg/style"
	"github.com/foomo/topbar/pkg/walker"
	"github.com/foomo/topbar/requests"
	"github.com/foomo/topbar/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const pathTopbar = "/topbar"

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	l := zaptest.NewLogger(t)
	mockServer, varDir := mock.GetMockData(t)

	h, err := repo.NewHistory(l, repo.HistoryWithHistoryDir(varDir))
	require.NoError(t, err)
	r := repo.New(l, mockServer.URL+"/menus-ok.json", h)

	mux := http.NewServeMux()
	mux.Handle(pathTopbar+"/", handler.NewHTTP(l, r, walker.New(l, walker.WithResolver(r)), style.New(style.ModeFixed)))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	go r.Start(t.Context()) //nolint:errcheck
	require.Eventually(t, r.Loaded, time.Second, 10*time.Millisecond)

	c, err := client.NewHTTPClient(server.URL + pathTopbar)
	require.NoError(t, err)
	t.Cleanup(c.ShutDown)
	return c
}

func TestInvalidHTTPClientInit(t *testing.T) {
	for _, url := range []string{"", "bogus", "htt:/notaurl", "htts://notaurl", "/path/segment/only"} {
		c, err := client.NewHTTPClient(url)
		assert.Nil(t, c, url)
		assert.Error(t, err, url)
	}
}

func TestUpdate(t *testing.T) {
	c := newTestClient(t)

	response, err := c.Update(context.TODO())
	require.NoError(t, err)
	require.True(t, response.Success, "update has to return .Success true")
	assert.Equal(t, 2, response.Stats.NumberOfLocations)
	assert.Greater(t, response.Stats.RepoRuntime, 0.0)
}

func TestRenderMenu(t *testing.T) {
	c := newTestClient(t)

	response, err := c.RenderMenu(context.TODO(), mock.MakeMenuRequest())
	require.NoError(t, err)
	assert.False(t, response.Fallback)
	assert.Contains(t, response.HTML, `<li id="menu-item-3" class="active menu-item-3">`)

	response, err = c.RenderMenu(context.TODO(), &requests.Menu{Location: "footer"})
	require.NoError(t, err)
	assert.Contains(t, response.HTML, `<a href="/imprint">Imprint</a>`)
}

func TestRenderStyle(t *testing.T) {
	c := newTestClient(t)

	response, err := c.RenderStyle(context.TODO(), &requests.Style{AdminBarShowing: true})
	require.NoError(t, err)
	assert.True(t, response.SuppressAdminBarBump)
	assert.Contains(t, response.HTML, "body.admin-bar .fixed + div { margin-top: 40px; }")
}

func TestGetRepo(t *testing.T) {
	c := newTestClient(t)

	doc, err := c.GetRepo(context.TODO())
	require.NoError(t, err)
	require.Contains(t, doc.Menus, "primary")
	assert.Equal(t, []string{"home", "about", "draft", "blog"}, doc.Menus["primary"].Index)
	assert.Equal(t, "About us", doc.Objects[42].Title)
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reply":{"status":500,"code":1,"message":"unknown handler: renderMenu"}}`))
	}))
	defer server.Close()

	c, err := client.NewHTTPClient(server.URL)
	require.NoError(t, err)

	_, err = c.RenderMenu(context.TODO(), &requests.Menu{})
	require.Error(t, err)
	var errReply *responses.Error
	require.ErrorAs(t, err, &errReply)
	assert.Equal(t, 1, errReply.Code)
}

func TestConcurrentRenderMenu(t *testing.T) {
	c := newTestClient(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			response, err := c.RenderMenu(context.TODO(), mock.MakeMenuRequest())
			if assert.NoError(t, err) {
				assert.False(t, response.Fallback)
			}
		}()
	}
	wg.Wait()
}
