// Package boardclient talks to a running boardai server. It provides the
// remote intent source and layer inserter used by the CLI chat session.
package boardclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"boardai/boardai/services/intent"
	"boardai/boardai/types"
	httputils "boardai/boardai/utils/http"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// Login exchanges a username for a bearer token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username string) (string, error) {
	var resp types.LoginResponse
	if err := httputils.PostJSON(ctx, c.http, c.baseURL+"/auth/login", "", types.LoginRequest{Username: username}, &resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	c.token = resp.Token
	return resp.Token, nil
}

// Interpret calls the intent endpoint and decodes the returned object.
func (c *Client) Interpret(ctx context.Context, message string) (intent.Intent, error) {
	var raw json.RawMessage
	err := httputils.PostJSON(ctx, c.http, c.baseURL+"/api/ai/generate-shape", c.token, types.GenerateShapeRequest{Message: message}, &raw)
	if err != nil {
		return intent.Intent{}, fmt.Errorf("generate shape: %w", err)
	}
	return intent.Decode(raw)
}

// Board returns a layer inserter bound to one board.
func (c *Client) Board(boardID string) *Board {
	return &Board{c: c, id: boardID}
}

type Board struct {
	c  *Client
	id string
}

func (b *Board) layersURL() string {
	return b.c.baseURL + "/boards/" + url.PathEscape(b.id) + "/layers"
}

// InsertLayer maps the server's 409 onto types.ErrLayerLimit.
func (b *Board) InsertLayer(ctx context.Context, spec types.LayerSpec) (string, error) {
	var layer types.Layer
	err := httputils.PostJSON(ctx, b.c.http, b.layersURL(), b.c.token, spec, &layer)
	if err != nil {
		var se *httputils.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusConflict {
			return "", types.ErrLayerLimit
		}
		return "", fmt.Errorf("insert layer: %w", err)
	}
	return layer.ID, nil
}

func (b *Board) Layers(ctx context.Context) ([]types.Layer, error) {
	var layers []types.Layer
	if err := httputils.GetJSON(ctx, b.c.http, b.layersURL(), b.c.token, &layers); err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}
	return layers, nil
}
