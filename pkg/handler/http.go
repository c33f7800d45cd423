package handler

import (
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	httputils "github.com/foomo/keel/utils/net/http"
	"github.com/foomo/topbar/menu"
	"github.com/foomo/topbar/pkg/metrics"
	"github.com/foomo/topbar/pkg/repo"
	"github.com/foomo/topbar/pkg/style"
	"github.com/foomo/topbar/pkg/walker"
	"github.com/foomo/topbar/requests"
	"github.com/foomo/topbar/responses"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	sourceWebserver = "webserver"

	errCodeUnknownRoute = 1
	errCodeBadJSON      = 2
	errCodeInternal     = 3
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	HTTP struct {
		l          *zap.Logger
		path       string
		repo       *repo.Repo
		walker     *walker.Walker
		style      *style.Injector
		cache      *cache.Cache
		authorizer Authorizer
	}
	HTTPOption func(*HTTP)
	// Authorizer decides whether the requesting user may manage menus
	Authorizer func(env *requests.Env) bool
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP returns a shiny new web server. It must be created before the repo
// is started, rendered menus are cached until the next successful update.
func NewHTTP(l *zap.Logger, repo *repo.Repo, w *walker.Walker, s *style.Injector, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		l:          l.Named("http"),
		path:       "/topbar",
		repo:       repo,
		walker:     w,
		style:      s,
		cache:      cache.New(10*time.Minute, 20*time.Minute),
		authorizer: GroupAuthorizer(menu.CapabilityManageOptions),
	}

	for _, opt := range opts {
		opt(inst)
	}

	repo.OnUpdate(inst.cache.Flush)

	return inst
}

// GroupAuthorizer grants menu management to members of group
func GroupAuthorizer(group string) Authorizer {
	return func(env *requests.Env) bool {
		return env != nil && slices.Contains(env.Groups, group)
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithPath(v string) HTTPOption {
	return func(o *HTTP) {
		o.path = v
	}
}

func WithAuthorizer(v Authorizer) HTTPOption {
	return func(o *HTTP) {
		o.authorizer = v
	}
}

// WithCacheExpiration how long rendered menus are kept, 0 disables the cache
func WithCacheExpiration(v time.Duration) HTTPOption {
	return func(o *HTTP) {
		if v <= 0 {
			o.cache = nil
			return
		}
		o.cache = cache.New(v, 2*v)
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputils.ServerError(h.l, w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	if r.Body == nil {
		httputils.BadRequestServerError(h.l, w, r, errors.New("empty request body"))
		return
	}

	bytes, err := io.ReadAll(r.Body)
	if err != nil {
		httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read incoming request"))
		return
	}

	route := Route(strings.TrimPrefix(r.URL.Path, h.path+"/"))
	if route == RouteGetRepo {
		w.Header().Set("Content-Type", "application/json")
		if err := h.repo.WriteRepoBytes(r.Context(), w); err != nil {
			h.l.Error("failed to write repo", zap.Error(err))
		}
		return
	}

	reply, errReply := h.handleRequest(r, route, bytes)
	if errReply != nil {
		http.Error(w, errReply.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(reply)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) handleRequest(r *http.Request, route Route, jsonBytes []byte) ([]byte, error) {
	start := time.Now()

	reply, err := h.executeRequest(r, route, jsonBytes)
	result := "success"
	if err != nil {
		result = "error"
	} else if _, ok := reply.(*responses.Error); ok {
		result = "error"
	}

	metrics.ServiceRequestCounter.WithLabelValues(string(route), result, sourceWebserver).Inc()
	metrics.ServiceRequestDuration.WithLabelValues(string(route), result, sourceWebserver).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	return h.encodeReply(reply)
}

func (h *HTTP) executeRequest(r *http.Request, route Route, jsonBytes []byte) (reply any, err error) {
	var (
		apiErr            error
		jsonErr           error
		processIfJSONIsOk = func(err error, processingFunc func()) {
			if err != nil {
				jsonErr = err
				return
			}
			processingFunc()
		}
	)

	switch route {
	case RouteRenderMenu:
		menuRequest := &requests.Menu{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, menuRequest), func() {
			reply, apiErr = h.renderMenu(menuRequest)
		})
	case RouteRenderStyle:
		styleRequest := &requests.Style{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, styleRequest), func() {
			reply = h.renderStyle(styleRequest)
		})
	case RouteUpdate:
		updateRequest := &requests.Update{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, updateRequest), func() {
			reply = h.repo.Update(r.Context())
		})
	default:
		reply = responses.NewError(errCodeUnknownRoute, "unknown handler: "+string(route))
	}

	// error handling
	if jsonErr != nil {
		h.l.Error("could not read incoming json", zap.Error(jsonErr))
		reply = responses.NewError(errCodeBadJSON, "could not read incoming json "+jsonErr.Error())
	} else if apiErr != nil {
		h.l.Error("an API error occurred", zap.Error(apiErr))
		reply = responses.NewError(errCodeInternal, "internal error "+apiErr.Error())
	}

	return reply, nil
}

func (h *HTTP) renderMenu(req *requests.Menu) (*responses.Menu, error) {
	canManage := h.authorizer != nil && h.authorizer(req.Env)

	var key string
	if h.cache != nil {
		keyBytes, err := json.Marshal(struct {
			*requests.Menu
			CanManage bool
		}{req, canManage})
		if err != nil {
			return nil, errors.Wrap(err, "failed to build cache key")
		}
		key = string(keyBytes)
		if cached, ok := h.cache.Get(key); ok {
			metrics.MenuRenderCacheCounter.WithLabelValues("hit").Inc()
			return cached.(*responses.Menu), nil
		}
		metrics.MenuRenderCacheCounter.WithLabelValues("miss").Inc()
	}

	items, ok := h.repo.GetItems(req)
	// request input never becomes a label value
	locationLabel := req.Location
	if !ok {
		locationLabel = metrics.LocationUnknown
		if req.Location != "" {
			metrics.UnknownLocationCounter.WithLabelValues().Inc()
			h.l.Debug("no menu assigned to location", zap.String("location", req.Location))
		}
	}

	html, fallback := h.walker.Render(items, req.Args, canManage)
	result := "menu"
	if fallback {
		result = "fallback"
	}
	metrics.MenuRenderCounter.WithLabelValues(locationLabel, result).Inc()

	response := &responses.Menu{
		Location: req.Location,
		HTML:     html,
		Fallback: fallback,
	}
	if h.cache != nil {
		h.cache.SetDefault(key, response)
	}
	return response, nil
}

func (h *HTTP) renderStyle(req *requests.Style) *responses.Style {
	env := style.Env{
		Admin:           req.Admin,
		AdminBarShowing: req.AdminBarShowing,
	}
	return &responses.Style{
		HTML:                 h.style.Render(env),
		SuppressAdminBarBump: h.style.SuppressesAdminBarBump(env),
	}
}

// encodeReply takes an interface and encodes it as JSON
// it returns the resulting JSON and a marshalling error
func (h *HTTP) encodeReply(reply any) (bytes []byte, err error) {
	bytes, err = json.Marshal(map[string]any{
		"reply": reply,
	})
	if err != nil {
		h.l.Error("could not encode reply", zap.Error(err))
	}
	return
}
