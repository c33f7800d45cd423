package client

import (
	"context"
	"net/http"

	"github.com/foomo/topbar/menu"
	"github.com/foomo/topbar/pkg/handler"
	"github.com/foomo/topbar/pkg/utils"
	"github.com/foomo/topbar/requests"
	"github.com/foomo/topbar/responses"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Client a topbar server client
	Client struct {
		t transport
	}
	// serverResponse every reply is wrapped like this, errors replace the reply
	serverResponse struct {
		Reply jsoniter.RawMessage `json:"reply"`
	}
)

// NewHTTPClient talks to the server mounted at url, e.g. http://localhost:8080/topbar
func NewHTTPClient(url string, opts ...HTTPClientOption) (*Client, error) {
	if !utils.IsValidURL(url) {
		return nil, errors.Errorf("invalid server url %q", url)
	}
	o := &httpClientOptions{client: http.DefaultClient}
	for _, opt := range opts {
		opt(o)
	}
	return &Client{t: NewHTTPTransport(url, o.client)}, nil
}

type (
	httpClientOptions struct {
		client *http.Client
	}
	HTTPClientOption func(*httpClientOptions)
)

func WithHTTPClient(v *http.Client) HTTPClientOption {
	return func(o *httpClientOptions) {
		o.client = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Update tell the server to update itself
func (c *Client) Update(ctx context.Context) (*responses.Update, error) {
	response := &responses.Update{}
	return response, c.call(ctx, handler.RouteUpdate, &requests.Update{}, response)
}

// RenderMenu renders the menu of a location
func (c *Client) RenderMenu(ctx context.Context, request *requests.Menu) (*responses.Menu, error) {
	response := &responses.Menu{}
	return response, c.call(ctx, handler.RouteRenderMenu, request, response)
}

// RenderStyle renders the admin bar style block
func (c *Client) RenderStyle(ctx context.Context, request *requests.Style) (*responses.Style, error) {
	response := &responses.Style{}
	return response, c.call(ctx, handler.RouteRenderStyle, request, response)
}

// GetRepo the loaded menu document
func (c *Client) GetRepo(ctx context.Context) (*menu.Document, error) {
	response := menu.NewDocument()
	return response, c.call(ctx, handler.RouteGetRepo, &requests.Repo{}, response)
}

// ShutDown closes idle connections
func (c *Client) ShutDown() {
	c.t.shutdown()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Client) call(ctx context.Context, route handler.Route, request any, response any) error {
	wrapped := &serverResponse{}
	if err := c.t.call(ctx, route, request, wrapped); err != nil {
		return err
	}
	if errReply := (&responses.Error{}); json.Unmarshal(wrapped.Reply, errReply) == nil && errReply.Code != 0 {
		return errReply
	}
	return json.Unmarshal(wrapped.Reply, response)
}
