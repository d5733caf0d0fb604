// Package types holds the request and board value types shared by the
// server, the chat widget and the remote clients.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrLayerLimit is returned by layer stores when a board is full.
	ErrLayerLimit = errors.New("board layer limit reached")
	// ErrSnapshotNotFound is returned by snapshot stores for an unknown key.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

type LayerType string

const (
	LayerRectangle LayerType = "rectangle"
	LayerEllipse   LayerType = "ellipse"
	LayerText      LayerType = "text"
)

func (t LayerType) Valid() bool {
	switch t {
	case LayerRectangle, LayerEllipse, LayerText:
		return true
	}
	return false
}

// Color is an RGB fill, each channel in 0..255.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

func (c Color) Valid() bool {
	return inByte(c.R) && inByte(c.G) && inByte(c.B)
}

func inByte(v int) bool { return v >= 0 && v <= 255 }

// UnmarshalJSON accepts any JSON number per channel, so 255.0 reads as 255.
// Fractions are rounded. Values far outside 0..255 decode as -1 and fail Valid.
func (c *Color) UnmarshalJSON(data []byte) error {
	var raw struct {
		R float64 `json:"r"`
		G float64 `json:"g"`
		B float64 `json:"b"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Color{R: channel(raw.R), G: channel(raw.G), B: channel(raw.B)}
	return nil
}

func channel(v float64) int {
	v = math.Round(v)
	if v < -1 || v > 256 {
		return -1
	}
	return int(v)
}

var (
	Black = Color{}
	Red   = Color{R: 255}
	Blue  = Color{B: 255}
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayerSpec is everything needed to append one drawable to a board.
type LayerSpec struct {
	Type   LayerType `json:"type"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Fill   Color     `json:"fill"`
	Value  string    `json:"value,omitempty"`
}

func (s LayerSpec) Validate() error {
	if !s.Type.Valid() {
		return fmt.Errorf("unknown layer type %q", s.Type)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New("width and height must be positive")
	}
	if !s.Fill.Valid() {
		return errors.New("fill color channels must be within 0..255")
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
}

type GenerateShapeRequest struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Layer is a stored layer as returned by the board API.
type Layer struct {
	ID       string `json:"id"`
	BoardID  string `json:"board_id"`
	Position int    `json:"position"`
	LayerSpec
	CreatedBy int `json:"created_by"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type SnapshotResponse struct {
	Key string `json:"key"`
}

// Snapshot is the archived form of a board at one instant.
type Snapshot struct {
	BoardID   string      `json:"board_id"`
	Layers    []LayerSpec `json:"layers"`
	Timestamp time.Time   `json:"timestamp"`
}
