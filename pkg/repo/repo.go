package repo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foomo/topbar/menu"
	"github.com/foomo/topbar/requests"
	"github.com/foomo/topbar/responses"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Repo menu repository
type (
	Repo struct {
		l                       *zap.Logger
		url                     string
		poll                    bool
		pollInterval            time.Duration
		pollVersion             string
		onLoaded                func()
		onUpdate                []func()
		loaded                  *atomic.Bool
		history                 *History
		httpClient              *http.Client
		updateInProgressChannel chan chan updateResponse
		directory               *Directory
		directoryLock           sync.RWMutex
		jsonBuffer              *bytes.Buffer
		jsonBufferLock          sync.RWMutex
	}
	// Directory everything loaded from one document
	Directory struct {
		Objects   map[int]*menu.Object
		Locations map[string]*Location
	}
	// Location a menu assigned to a theme location
	Location struct {
		Node      *menu.Node
		Directory map[int]*menu.Node
	}
	Option func(*Repo)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, url string, history *History, opts ...Option) *Repo {
	inst := &Repo{
		l:                       l.Named("repo"),
		url:                     url,
		poll:                    false,
		loaded:                  &atomic.Bool{},
		pollInterval:            time.Minute,
		history:                 history,
		httpClient:              http.DefaultClient,
		directory:               newDirectory(),
		updateInProgressChannel: make(chan chan updateResponse),
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

func newDirectory() *Directory {
	return &Directory{
		Objects:   map[int]*menu.Object{},
		Locations: map[string]*Location{},
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Repo) {
		o.httpClient = v
	}
}

func WithPoll(v bool) Option {
	return func(o *Repo) {
		o.poll = v
	}
}

func WithPollInterval(v time.Duration) Option {
	return func(o *Repo) {
		o.pollInterval = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (r *Repo) Loaded() bool {
	return r.loaded.Load()
}

func (r *Repo) Directory() *Directory {
	r.directoryLock.RLock()
	defer r.directoryLock.RUnlock()
	return r.directory
}

func (r *Repo) SetDirectory(v *Directory) {
	r.directoryLock.Lock()
	defer r.directoryLock.Unlock()
	r.directory = v
}

func (r *Repo) JSONBufferBytes() []byte {
	r.jsonBufferLock.RLock()
	defer r.jsonBufferLock.RUnlock()
	if r.jsonBuffer == nil {
		return nil
	}
	return r.jsonBuffer.Bytes()
}

func (r *Repo) SetJSONBuffer(v *bytes.Buffer) {
	r.jsonBufferLock.Lock()
	defer r.jsonBufferLock.Unlock()
	r.jsonBuffer = v
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// OnLoaded is called once after the first successful update
func (r *Repo) OnLoaded(fn func()) {
	r.onLoaded = fn
}

// OnUpdate registers a callback for every successful update and every restore
// from history, register before Start
func (r *Repo) OnUpdate(fn func()) {
	r.onUpdate = append(r.onUpdate, fn)
}

// Locations names of all locations with a menu
func (r *Repo) Locations() []string {
	locations := make([]string, 0, len(r.Directory().Locations))
	for location := range r.Directory().Locations {
		locations = append(locations, location)
	}
	sort.Strings(locations)
	return locations
}

// GetItems flattens the menu of a location for one request: entries the
// groups may not see are dropped and the current page flags are set from
// req.URI. Every call returns fresh items.
func (r *Repo) GetItems(req *requests.Menu) ([]*menu.Item, bool) {
	location, ok := r.Directory().Locations[req.Location]
	if !ok {
		return nil, false
	}
	var groups []string
	if req.Env != nil {
		groups = req.Env.Groups
	}
	items := location.Node.Items(groups)
	menu.MarkCurrent(items, req.URI)
	return items, true
}

// Resolve url and title of a content object, empty if it does not exist
func (r *Repo) Resolve(id int) (string, string) {
	object, ok := r.Directory().Objects[id]
	if !ok || object == nil {
		r.l.Debug("unknown content object", zap.Int("id", id))
		return "", ""
	}
	return object.URL, object.Title
}

// GetRepo get all menus by location
func (r *Repo) GetRepo() map[string]*menu.Node {
	response := make(map[string]*menu.Node)
	for name, location := range r.Directory().Locations {
		response[name] = location.Node
	}
	return response
}

// WriteRepoBytes writes the loaded document to the provided writer.
// It serves from the in-memory buffer, falling back to storage only when empty.
// The result is wrapped as service response, e.g: {"reply": <document>}
func (r *Repo) WriteRepoBytes(ctx context.Context, w io.Writer) error {
	data := r.JSONBufferBytes()

	if len(data) == 0 {
		// Fallback to storage (cold start or not yet loaded)
		var buf bytes.Buffer
		if err := r.history.GetCurrent(ctx, &buf); err != nil {
			return errors.Wrap(err, "failed to read repo from storage")
		}
		data = buf.Bytes()
	}

	if _, err := w.Write([]byte(`{"reply":`)); err != nil {
		return errors.Wrap(err, "failed to write repo JSON prefix")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write repo JSON data")
	}
	if _, err := w.Write([]byte(`}`)); err != nil {
		return errors.Wrap(err, "failed to write repo JSON suffix")
	}
	return nil
}

func (r *Repo) Update(ctx context.Context) (updateResponse *responses.Update) {
	floatSeconds := func(nanoSeconds int64) float64 {
		return float64(nanoSeconds) / float64(1000000000)
	}

	r.l.Info("Update triggered")

	start := time.Now()
	updateRepotime, err := r.tryUpdate(ctx)
	updateResponse = &responses.Update{}
	updateResponse.Stats.RepoRuntime = floatSeconds(updateRepotime)

	if err != nil {
		updateResponse.Success = false
		updateResponse.Stats.NumberOfLocations = -1
		updateResponse.Stats.NumberOfItems = -1

		// only try to restore if the update failed during processing
		if !errors.Is(err, ErrUpdateRejected) {
			updateResponse.ErrorMessage = err.Error()
			r.l.Error("Failed to update repository", zap.Error(err))

			restoreErr := r.tryToRestoreCurrent(ctx)
			if restoreErr != nil {
				r.l.Error("Failed to restore preceding repository version", zap.Error(restoreErr))
			} else {
				r.l.Info("Successfully restored current repository from local history")
			}
		}
	} else {
		updateResponse.Success = true
		// add some stats
		for _, location := range r.Directory().Locations {
			updateResponse.Stats.NumberOfLocations++
			updateResponse.Stats.NumberOfItems += len(location.Directory)
		}
	}
	updateResponse.Stats.OwnRuntime = floatSeconds(time.Since(start).Nanoseconds()) - updateResponse.Stats.RepoRuntime
	return updateResponse
}

func (r *Repo) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	l := r.l.Named("start")

	up := make(chan bool, 1)
	g.Go(func() error {
		l.Debug("starting update routine")
		up <- true
		return r.UpdateRoutine(gCtx)
	})
	l.Debug("waiting for UpdateRoutine")
	<-up

	l.Debug("trying to restore previous repo")
	if err := r.tryToRestoreCurrent(gCtx); errors.Is(err, os.ErrNotExist) {
		l.Info("previous repo content file does not exist")
	} else if err != nil {
		l.Warn("could not restore previous repo content", zap.Error(err))
	} else {
		l.Info("restored previous repo")
	}

	if r.poll {
		g.Go(func() error {
			l.Debug("starting poll routine")
			return r.PollRoutine(gCtx)
		})
	}

	if !r.Loaded() {
		l.Debug("trying to update initial state")
		if resp := r.Update(gCtx); !resp.Success {
			l.Error("failed to update initial state",
				zap.String("error", resp.ErrorMessage),
				zap.Int("num_locations", resp.Stats.NumberOfLocations),
				zap.Int("num_items", resp.Stats.NumberOfItems),
				zap.Float64("own_runtime", resp.Stats.OwnRuntime),
				zap.Float64("repo_runtime", resp.Stats.RepoRuntime),
			)
		}
	}

	return g.Wait()
}
