package mock

import (
	"net/http"
	"net/http/httptest"
	"path"
	"runtime"
	"testing"
	"time"

	"github.com/foomo/topbar/menu"
	"github.com/foomo/topbar/requests"
)

// GetMockData serves the menu documents next to this file and returns a
// directory for the history
func GetMockData(tb testing.TB) (*httptest.Server, string) {
	tb.Helper()
	_, filename, _, _ := runtime.Caller(0)
	mockDir := path.Dir(filename)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(time.Millisecond * 50)
		mockFilename := path.Join(mockDir, req.URL.Path[1:])
		http.ServeFile(w, req, mockFilename)
	}))
	tb.Cleanup(server.Close)

	return server, tb.TempDir()
}

// MakeMenuRequest a request for the primary menu on the team page
func MakeMenuRequest() *requests.Menu {
	return &requests.Menu{
		Location: "primary",
		URI:      "/about/team/",
		Env: &requests.Env{
			Groups: []string{},
		},
		Args: menu.NewArgs(),
	}
}
