package controllers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"boardai/boardai/services/chatbot"
	"boardai/boardai/types"
	"boardai/boardai/utils/logging"
)

const (
	FrameMessage      = "message"
	FrameCamera       = "camera"
	FrameColor        = "color"
	FrameClose        = "close"
	FrameLayerCreated = "layer_created"
	FrameState        = "state"
	FrameError        = "error"
)

// ClientFrame is anything the widget sends. Which fields are set depends on
// Type.
type ClientFrame struct {
	Type    string       `json:"type"`
	Content string       `json:"content,omitempty"`
	X       float64      `json:"x,omitempty"`
	Y       float64      `json:"y,omitempty"`
	Color   *types.Color `json:"color,omitempty"`
}

type ServerFrame struct {
	Type        string           `json:"type"`
	Message     *chatbot.Message `json:"message,omitempty"`
	LayerID     string           `json:"layer_id,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	Pending     *bool            `json:"pending,omitempty"`
	Error       string           `json:"error,omitempty"`
}

type WidgetController struct {
	intents   chatbot.IntentSource
	layers    *LayerController
	maxLayers int
}

func NewWidgetController(intents chatbot.IntentSource, layers *LayerController, maxLayers int) *WidgetController {
	return &WidgetController{intents: intents, layers: layers, maxLayers: maxLayers}
}

// Serve runs one widget session over conn until the client goes away. Frames
// are handled strictly in arrival order.
func (c *WidgetController) Serve(ctx context.Context, conn *websocket.Conn, boardID string, userID int) error {
	session, err := chatbot.NewSession(c.intents, c.layers.Inserter(boardID, userID), chatbot.WithMaxLayers(c.maxLayers))
	if err != nil {
		return err
	}
	for _, m := range session.Messages() {
		if err := writeMessage(ctx, conn, m); err != nil {
			return err
		}
	}
	if err := writeState(ctx, conn, session); err != nil {
		return err
	}

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			if err := writeError(ctx, conn, "unsupported data"); err != nil {
				return err
			}
			continue
		}
		var frame ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			if err := writeError(ctx, conn, "invalid json"); err != nil {
				return err
			}
			continue
		}
		if err := c.handle(ctx, conn, session, frame); err != nil {
			return err
		}
	}
}

func (c *WidgetController) handle(ctx context.Context, conn *websocket.Conn, session *chatbot.Session, frame ClientFrame) error {
	switch frame.Type {
	case FrameMessage:
		reply, err := session.Send(ctx, frame.Content)
		if errors.Is(err, chatbot.ErrEmptyMessage) {
			return writeError(ctx, conn, "message is empty")
		}
		if err != nil {
			return writeError(ctx, conn, err.Error())
		}
		for _, m := range reply.Messages {
			if err := writeMessage(ctx, conn, m); err != nil {
				return err
			}
		}
		for _, id := range reply.LayerIDs {
			if err := wsjson.Write(ctx, conn, ServerFrame{Type: FrameLayerCreated, LayerID: id}); err != nil {
				return err
			}
		}
		return writeState(ctx, conn, session)

	case FrameCamera:
		session.SetCamera(types.Point{X: frame.X, Y: frame.Y})
		return nil

	case FrameColor:
		if frame.Color == nil || !frame.Color.Valid() {
			return writeError(ctx, conn, "invalid color")
		}
		session.SetLastUsedColor(*frame.Color)
		return nil

	case FrameClose:
		session.Close()
		return writeState(ctx, conn, session)
	}
	logging.AppLogger.Info("unknown widget frame", zap.String("type", frame.Type))
	return writeError(ctx, conn, "unknown frame type")
}

func writeMessage(ctx context.Context, conn *websocket.Conn, m chatbot.Message) error {
	return wsjson.Write(ctx, conn, ServerFrame{Type: FrameMessage, Message: &m})
}

func writeState(ctx context.Context, conn *websocket.Conn, session *chatbot.Session) error {
	pending := session.Pending() != nil
	return wsjson.Write(ctx, conn, ServerFrame{Type: FrameState, Placeholder: session.Placeholder(), Pending: &pending})
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) error {
	return wsjson.Write(ctx, conn, ServerFrame{Type: FrameError, Error: msg})
}
