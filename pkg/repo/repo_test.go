package repo

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foomo/topbar/menu"
	"github.com/foomo/topbar/pkg/repo/mock"
	"github.com/foomo/topbar/requests"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func NewTestRepo(ctx context.Context, l *zap.Logger, url, varDir string, opts ...Option) *Repo {
	h, err := NewHistory(l, HistoryWithHistoryLimit(2), HistoryWithHistoryDir(varDir))
	if err != nil {
		panic(err)
	}
	r := New(l, url, h, opts...)
	go r.Start(ctx) //nolint:errcheck
	time.Sleep(100 * time.Millisecond)
	return r
}

func getTestRepo(t *testing.T, path string) *Repo {
	t.Helper()
	mockServer, varDir := mock.GetMockData(t)
	r := NewTestRepo(t.Context(), zaptest.NewLogger(t), mockServer.URL+path, varDir)
	require.Eventually(t, r.Loaded, time.Second, 10*time.Millisecond)
	return r
}

func TestLoad404(t *testing.T) {
	var (
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), zaptest.NewLogger(t), mockServer.URL+"/menus-no-have", varDir)
	)

	response := r.Update(t.Context())
	assert.False(t, response.Success, "can not get menus, if the server responds with a 404")
	assert.Equal(t, -1, response.Stats.NumberOfLocations)
	assert.False(t, r.Loaded())
}

func TestLoadBrokenDocument(t *testing.T) {
	var (
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), zaptest.NewLogger(t), mockServer.URL+"/menus-broken.json", varDir)
	)

	response := r.Update(t.Context())
	assert.False(t, response.Success, "how could we load a broken json")
	assert.Contains(t, response.ErrorMessage, "deserialize")
}

func TestLoadRepo(t *testing.T) {
	r := getTestRepo(t, "/menus-ok.json")
	assert.Equal(t, []string{"footer", "primary"}, r.Locations())

	response := r.Update(t.Context())
	require.True(t, response.Success, "could not load valid menus")
	assert.Equal(t, 2, response.Stats.NumberOfLocations)
	assert.Equal(t, 9, response.Stats.NumberOfItems)
	assert.GreaterOrEqual(t, response.Stats.RepoRuntime, 0.05, "the server was too fast")
}

func TestLoadRepoDuplicateIDs(t *testing.T) {
	var (
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), zaptest.NewLogger(t), mockServer.URL+"/menus-duplicate-ids.json", varDir)
	)

	response := r.Update(t.Context())
	require.False(t, response.Success, "there are duplicates, this update should have failed")
	assert.Contains(t, response.ErrorMessage, "duplicate node with id: 1")
	assert.Empty(t, r.Locations())
}

func TestFailedUpdateKeepsMenus(t *testing.T) {
	mockServer, _ := mock.GetMockData(t)
	r := getTestRepo(t, "/menus-ok.json")

	r.url = mockServer.URL + "/menus-duplicate-ids.json"
	response := r.Update(t.Context())
	require.False(t, response.Success)

	// restored from history
	assert.Equal(t, []string{"footer", "primary"}, r.Locations())
	items, ok := r.GetItems(mock.MakeMenuRequest())
	require.True(t, ok)
	assert.NotEmpty(t, items)
}

func TestRestoreFromHistory(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
	)
	first := NewTestRepo(t.Context(), l, mockServer.URL+"/menus-ok.json", varDir)
	require.Eventually(t, first.Loaded, time.Second, 10*time.Millisecond)

	// the second instance can not reach its source but starts with the snapshot
	second := NewTestRepo(t.Context(), l, mockServer.URL+"/menus-no-have", varDir)
	assert.Equal(t, []string{"footer", "primary"}, second.Locations())
	assert.False(t, second.Loaded())
}

func TestRestoreRunsUpdateCallbacks(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		updated            atomic.Int32
	)
	first := NewTestRepo(t.Context(), l, mockServer.URL+"/menus-ok.json", varDir)
	require.Eventually(t, first.Loaded, time.Second, 10*time.Millisecond)

	h, err := NewHistory(l, HistoryWithHistoryDir(varDir))
	require.NoError(t, err)
	second := New(l, mockServer.URL+"/menus-no-have", h)
	second.OnUpdate(func() { updated.Add(1) })
	go second.Start(t.Context()) //nolint:errcheck

	// restored on start and again after the failed initial update
	assert.Eventually(t, func() bool { return updated.Load() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"footer", "primary"}, second.Locations())
	assert.False(t, second.Loaded())
}

func TestOrphanedLocationsAreRemoved(t *testing.T) {
	var (
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), zaptest.NewLogger(t), mockServer.URL+"/menus-ok.json", varDir)
	)
	require.Eventually(t, r.Loaded, time.Second, 10*time.Millisecond)

	doc := menu.NewDocument()
	doc.Menus["primary"] = (&menu.Node{}).AddNode("home", &menu.Node{ID: 1, Title: "Home", URL: "/"})
	require.NoError(t, r.loadDocument(doc))
	assert.Equal(t, []string{"primary"}, r.Locations())
}

func TestGetItems(t *testing.T) {
	r := getTestRepo(t, "/menus-ok.json")

	items, ok := r.GetItems(mock.MakeMenuRequest())
	require.True(t, ok)

	ids := make([]int, 0, len(items))
	byID := map[int]*menu.Item{}
	for _, item := range items {
		ids = append(ids, item.ID)
		byID[item.ID] = item
	}
	// hidden and group restricted entries are gone
	assert.Equal(t, []int{1, 2, 3, 4, 5, 8}, ids)
	assert.Equal(t, 2, byID[3].ParentID)
	assert.Equal(t, 4, byID[5].ParentID)

	assert.True(t, byID[3].Current)
	assert.True(t, byID[2].CurrentAncestor)
	assert.False(t, byID[1].Current || byID[1].CurrentAncestor)

	_, ok = r.GetItems(&requests.Menu{Location: "sidebar"})
	assert.False(t, ok)
}

func TestGetItemsGroups(t *testing.T) {
	r := getTestRepo(t, "/menus-ok.json")

	req := mock.MakeMenuRequest()
	req.Env.Groups = []string{"staff"}
	items, ok := r.GetItems(req)
	require.True(t, ok)
	assert.Len(t, items, 7)

	req.Env = nil
	items, ok = r.GetItems(req)
	require.True(t, ok)
	assert.Len(t, items, 6)
}

func TestGetItemsReturnsFreshItems(t *testing.T) {
	r := getTestRepo(t, "/menus-ok.json")

	items, _ := r.GetItems(mock.MakeMenuRequest())
	items[0].Title = "changed"
	items[0].Classes = append(items[0].Classes, "changed")

	again, _ := r.GetItems(mock.MakeMenuRequest())
	assert.Equal(t, "Home", again[0].Title)
	assert.Empty(t, again[0].Classes)
}

func TestResolve(t *testing.T) {
	r := getTestRepo(t, "/menus-ok.json")

	url, title := r.Resolve(42)
	assert.Equal(t, "/about", url)
	assert.Equal(t, "About us", title)

	url, title = r.Resolve(4711)
	assert.Empty(t, url)
	assert.Empty(t, title)
}

func TestUpdateCallbacks(t *testing.T) {
	var (
		loaded             atomic.Int32
		updated            atomic.Int32
		mockServer, varDir = mock.GetMockData(t)
	)
	h, err := NewHistory(zaptest.NewLogger(t), HistoryWithHistoryDir(varDir))
	require.NoError(t, err)
	r := New(zaptest.NewLogger(t), mockServer.URL+"/menus-ok.json", h)
	r.OnLoaded(func() { loaded.Add(1) })
	r.OnUpdate(func() { updated.Add(1) })
	go r.Start(t.Context()) //nolint:errcheck

	require.Eventually(t, r.Loaded, time.Second, 10*time.Millisecond)
	require.True(t, r.Update(t.Context()).Success)

	assert.Equal(t, int32(1), loaded.Load())
	assert.Equal(t, int32(2), updated.Load())
}

func TestUpdateRejectedWhileBusy(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"menus":{}}`))
	}))
	defer server.Close()
	defer close(release)

	h, err := NewHistory(zaptest.NewLogger(t), HistoryWithHistoryDir(t.TempDir()))
	require.NoError(t, err)
	r := New(zaptest.NewLogger(t), server.URL, h)
	go r.Start(t.Context()) //nolint:errcheck

	// the initial update blocks on the server
	time.Sleep(100 * time.Millisecond)
	response := r.Update(t.Context())
	assert.False(t, response.Success)
	assert.Empty(t, response.ErrorMessage)
}

func TestPoll(t *testing.T) {
	var (
		mux     = http.NewServeMux()
		server  = httptest.NewServer(mux)
		fetches atomic.Int32
	)
	defer server.Close()
	mux.HandleFunc("/version", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(server.URL + "/menus.json\n"))
	})
	mux.HandleFunc("/menus.json", func(w http.ResponseWriter, req *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte(`{"menus":{"primary":{"nodes":{"home":{"id":1,"title":"Home","URL":"/"}},"index":["home"]}}}`))
	})

	h, err := NewHistory(zaptest.NewLogger(t), HistoryWithHistoryDir(t.TempDir()))
	require.NoError(t, err)
	r := New(zaptest.NewLogger(t), server.URL+"/version", h, WithPoll(true), WithPollInterval(20*time.Millisecond))
	go r.Start(t.Context()) //nolint:errcheck

	require.Eventually(t, r.Loaded, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	// the document is only fetched again when the version changes
	assert.Equal(t, int32(1), fetches.Load())
	assert.Equal(t, []string{"primary"}, r.Locations())
}

func TestWriteRepoBytes(t *testing.T) {
	r := getTestRepo(t, "/menus-ok.json")

	var buf bytes.Buffer
	require.NoError(t, r.WriteRepoBytes(t.Context(), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(`{"reply":{`)))

	doc := menu.NewDocument()
	reply := struct {
		Reply *menu.Document `json:"reply"`
	}{Reply: doc}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &reply))
	assert.Len(t, doc.Menus, 2)
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestWriteRepoBytesErrors(t *testing.T) {
	h, err := NewHistory(zaptest.NewLogger(t), HistoryWithHistoryDir(t.TempDir()))
	require.NoError(t, err)
	r := New(zaptest.NewLogger(t), "http://127.0.0.1:0/menus.json", h)

	// nothing loaded and nothing in history
	var buf bytes.Buffer
	err = r.WriteRepoBytes(t.Context(), &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, buf.Bytes())

	closed := errors.New("closed")
	r.SetJSONBuffer(bytes.NewBufferString(`{"menus":{}}`))
	err = r.WriteRepoBytes(t.Context(), failingWriter{err: closed})
	assert.Equal(t, closed, errors.Cause(err))
	assert.Contains(t, err.Error(), "failed to write repo JSON prefix")
}

func TestWriteRepoBytesRace(t *testing.T) {
	r := getTestRepo(t, "/menus-ok.json")

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				var buf bytes.Buffer
				_ = r.WriteRepoBytes(ctx, &buf)
			}
		}()
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				r.SetJSONBuffer(bytes.NewBufferString(`{"menus":{}}`))
			}
		}()
	}
	wg.Wait()
}

func BenchmarkGetItems(b *testing.B) {
	mockServer, varDir := mock.GetMockData(b)
	r := NewTestRepo(b.Context(), zaptest.NewLogger(b), mockServer.URL+"/menus-ok.json", varDir)
	req := mock.MakeMenuRequest()

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if _, ok := r.GetItems(req); !ok {
			b.Fatal("menu should have been there")
		}
	}
}
