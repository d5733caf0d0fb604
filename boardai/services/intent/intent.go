// Package intent turns free text into a shape or text description: it owns
// the prompt sent to the model, the tolerant reply parser and the typed view
// of the model's JSON object.
package intent

import (
	"encoding/json"
	"fmt"

	"boardai/boardai/types"
)

const (
	ActionShape = "shape"
	ActionText  = "text"

	ShapeRectangle = "rectangle"
	ShapeSquare    = "square"
	ShapeCircle    = "circle"
)

// Intent is the typed reading of one model reply. Numeric fields are
// pointers so that "absent" and "zero" stay distinguishable.
type Intent struct {
	ActionType      string       `json:"actionType,omitempty"`
	ShapeType       string       `json:"shapeType,omitempty"`
	Text            string       `json:"text,omitempty"`
	Width           *float64     `json:"width,omitempty"`
	Height          *float64     `json:"height,omitempty"`
	Radius          *float64     `json:"radius,omitempty"`
	Color           *types.Color `json:"color,omitempty"`
	X               *float64     `json:"x,omitempty"`
	Y               *float64     `json:"y,omitempty"`
	NeedsDimensions bool         `json:"needsDimensions,omitempty"`
}

// Decode reads a model JSON object into an Intent. Unknown fields are kept
// out of the typed view rather than rejected, since the endpoint passes the
// object through unvalidated.
func Decode(raw json.RawMessage) (Intent, error) {
	var in Intent
	if err := json.Unmarshal(raw, &in); err != nil {
		return Intent{}, fmt.Errorf("intent: decode: %w", err)
	}
	if in.Color != nil && !in.Color.Valid() {
		return Intent{}, fmt.Errorf("intent: color out of range: %+v", *in.Color)
	}
	return in, nil
}

// Float returns *p or def when p is nil or not positive.
func Float(p *float64, def float64) float64 {
	if p == nil || *p <= 0 {
		return def
	}
	return *p
}
