package chatbot

import (
	"boardai/boardai/services/intent"
	"boardai/boardai/types"
)

// Pending is the shape the assistant is waiting on dimensions for. A nil
// Pending means the dialogue is idle.
type Pending interface {
	pending()
	// Prompt is the question asked when entering this state.
	Prompt() string
	// Fill is the color the shape will be created with.
	Fill() types.Color
}

// AwaitingRadius waits for one number: a circle radius.
type AwaitingRadius struct{ Color types.Color }

// AwaitingSize waits for one number: the side of a square.
type AwaitingSize struct{ Color types.Color }

// AwaitingWidthHeight waits for two numbers: rectangle width then height.
type AwaitingWidthHeight struct{ Color types.Color }

func (AwaitingRadius) pending()      {}
func (AwaitingSize) pending()        {}
func (AwaitingWidthHeight) pending() {}

func (p AwaitingRadius) Fill() types.Color      { return p.Color }
func (p AwaitingSize) Fill() types.Color        { return p.Color }
func (p AwaitingWidthHeight) Fill() types.Color { return p.Color }

func (AwaitingRadius) Prompt() string {
	return "What radius would you like for the circle? (e.g., '50')"
}

func (AwaitingSize) Prompt() string {
	return "What size would you like for the square? (e.g., '100')"
}

func (AwaitingWidthHeight) Prompt() string {
	return "What width and height would you like for the rectangle? (e.g., '200 150')"
}

// pendingFor picks the awaiting state for a shape type, or nil if the shape
// is not one the assistant can size.
func pendingFor(shapeType string, color types.Color) Pending {
	switch shapeType {
	case intent.ShapeCircle:
		return AwaitingRadius{Color: color}
	case intent.ShapeSquare:
		return AwaitingSize{Color: color}
	case intent.ShapeRectangle:
		return AwaitingWidthHeight{Color: color}
	}
	return nil
}
