// Package chatbot holds the shape assistant's dialogue: the transcript, the
// pending-shape state machine and the translation of intents into layers.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boardai/boardai/services/intent"
	"boardai/boardai/types"
	"boardai/boardai/utils/logging"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

const (
	Greeting = "Hi! I can help you create shapes and text on the board. Try saying 'create a red rectangle' or 'add text Hello World' or 'create a blue circle'."
	Apology  = "Sorry, I encountered an error. Please try again."

	unknownShape = "I can create rectangles, squares, circles, and text. Which one would you like?"

	placeholderIdle    = "Type your message..."
	placeholderPending = "Enter dimensions..."

	// New elements land this far right/down of the view origin.
	viewportOffset = 200

	defaultShapeSize  = 100
	defaultTextWidth  = 200
	defaultTextHeight = 100
)

var (
	ErrEmptyMessage = errors.New("chatbot: message is empty")
	ErrBusy         = errors.New("chatbot: a message is already being processed")

	reNumber = regexp.MustCompile(`\d+`)
)

// IntentSource interprets one user message.
type IntentSource interface {
	Interpret(ctx context.Context, message string) (intent.Intent, error)
}

// LayerInserter appends one layer to the shared board and returns its id.
// It reports a full board with types.ErrLayerLimit.
type LayerInserter interface {
	InsertLayer(ctx context.Context, spec types.LayerSpec) (string, error)
}

// Reply is what a single Send added to the conversation.
type Reply struct {
	Messages []Message `json:"messages"`
	LayerIDs []string  `json:"layer_ids,omitempty"`
}

// Session is one widget instance: a single conversation with at most one
// message in flight.
type Session struct {
	intents   IntentSource
	layers    LayerInserter
	maxLayers int
	newID     func() string

	sending atomic.Bool

	mu        sync.Mutex
	messages  []Message
	pending   Pending
	camera    types.Point
	lastColor types.Color
}

type Option func(*Session)

func WithLastUsedColor(c types.Color) Option {
	return func(s *Session) { s.lastColor = c }
}

func WithCamera(p types.Point) Option {
	return func(s *Session) { s.camera = p }
}

// WithMaxLayers is only used to word the board-full message.
func WithMaxLayers(n int) Option {
	return func(s *Session) { s.maxLayers = n }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

func NewSession(intents IntentSource, layers LayerInserter, opts ...Option) (*Session, error) {
	if intents == nil {
		return nil, errors.New("chatbot: intent source must not be nil")
	}
	if layers == nil {
		return nil, errors.New("chatbot: layer inserter must not be nil")
	}
	s := &Session{
		intents:   intents,
		layers:    layers,
		newID:     uuid.NewString,
		lastColor: types.Black,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = []Message{{ID: s.newID(), Role: RoleAssistant, Content: Greeting}}
	return s, nil
}

// Send handles one user message and returns the messages it produced, the
// user's own message first.
func (s *Session) Send(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}
	if !s.sending.CompareAndSwap(false, true) {
		return Reply{}, ErrBusy
	}
	defer s.sending.Store(false)

	r := &Reply{}
	s.say(r, RoleUser, text)

	if p := s.Pending(); p != nil {
		s.resolveDimensions(ctx, r, p, text)
	} else {
		s.interpret(ctx, r, text)
	}
	return *r, nil
}

// Busy reports whether a Send is in flight.
func (s *Session) Busy() bool { return s.sending.Load() }

// Close is the panel closing: any pending shape is dropped.
func (s *Session) Close() { s.setPending(nil) }

func (s *Session) Pending() Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Session) Placeholder() string {
	if s.Pending() != nil {
		return placeholderPending
	}
	return placeholderIdle
}

func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) SetCamera(p types.Point) {
	s.mu.Lock()
	s.camera = p
	s.mu.Unlock()
}

func (s *Session) SetLastUsedColor(c types.Color) {
	s.mu.Lock()
	s.lastColor = c
	s.mu.Unlock()
}

func (s *Session) interpret(ctx context.Context, r *Reply, text string) {
	in, err := s.intents.Interpret(ctx, text)
	if err != nil {
		logging.ErrorLogger.Error("intent request failed", zap.Error(err))
		s.setPending(nil)
		s.say(r, RoleAssistant, Apology)
		return
	}

	color := s.colorOr(in.Color)
	switch {
	case in.ActionType == intent.ActionText:
		value := strings.TrimSpace(in.Text)
		if value == "" {
			value = "Text"
		}
		x, y := s.positionOr(in.X, in.Y)
		s.insert(ctx, r, types.LayerSpec{
			Type: types.LayerText, X: x, Y: y,
			Width: defaultTextWidth, Height: defaultTextHeight,
			Fill: color, Value: value,
		}, fmt.Sprintf("Perfect! I've created text \"%s\" on the board.", value))

	case in.NeedsDimensions:
		p := pendingFor(in.ShapeType, color)
		if p == nil {
			s.say(r, RoleAssistant, unknownShape)
			return
		}
		s.setPending(p)
		s.say(r, RoleAssistant, p.Prompt())

	default:
		s.createShape(ctx, r, in, color)
	}
}

func (s *Session) createShape(ctx context.Context, r *Reply, in intent.Intent, color types.Color) {
	x, y := s.positionOr(in.X, in.Y)
	switch in.ShapeType {
	case intent.ShapeCircle:
		w := intent.Float(in.Width, defaultShapeSize)
		h := intent.Float(in.Height, defaultShapeSize)
		if radius := intent.Float(in.Radius, 0); radius > 0 {
			w, h = 2*radius, 2*radius
		}
		s.insert(ctx, r, types.LayerSpec{Type: types.LayerEllipse, X: x, Y: y, Width: w, Height: h, Fill: color},
			fmt.Sprintf("Great! I've created a circle with radius %spx.", px(w/2)))

	case intent.ShapeRectangle, intent.ShapeSquare:
		w := intent.Float(in.Width, defaultShapeSize)
		h := intent.Float(in.Height, defaultShapeSize)
		if in.ShapeType == intent.ShapeSquare && intent.Float(in.Height, 0) == 0 {
			h = w
		}
		s.insert(ctx, r, types.LayerSpec{Type: types.LayerRectangle, X: x, Y: y, Width: w, Height: h, Fill: color},
			fmt.Sprintf("Perfect! I've created a %s with width %spx and height %spx.", in.ShapeType, px(w), px(h)))

	default:
		s.say(r, RoleAssistant, unknownShape)
	}
}

func (s *Session) resolveDimensions(ctx context.Context, r *Reply, p Pending, text string) {
	nums := extractNumbers(text)
	x, y := s.positionOr(nil, nil)
	fill := p.Fill()

	switch p.(type) {
	case AwaitingRadius:
		if len(nums) == 0 || nums[0] <= 0 {
			s.say(r, RoleAssistant, "Please provide a valid radius (a positive number).")
			return
		}
		d := float64(2 * nums[0])
		s.insert(ctx, r, types.LayerSpec{Type: types.LayerEllipse, X: x, Y: y, Width: d, Height: d, Fill: fill},
			fmt.Sprintf("Great! I've created a circle with radius %dpx.", nums[0]))

	case AwaitingSize:
		if len(nums) == 0 {
			s.say(r, RoleAssistant, "Please provide a size as a number (e.g., '100').")
			return
		}
		if nums[0] <= 0 {
			s.say(r, RoleAssistant, "Please provide a valid size (a positive number).")
			return
		}
		size := float64(nums[0])
		s.insert(ctx, r, types.LayerSpec{Type: types.LayerRectangle, X: x, Y: y, Width: size, Height: size, Fill: fill},
			fmt.Sprintf("Perfect! I've created a square with size %dpx.", nums[0]))

	case AwaitingWidthHeight:
		if len(nums) < 2 {
			s.say(r, RoleAssistant, "Please provide both width and height as two numbers (e.g., '200 150').")
			return
		}
		if nums[0] <= 0 || nums[1] <= 0 {
			s.say(r, RoleAssistant, "Please provide valid dimensions (two positive numbers).")
			return
		}
		s.insert(ctx, r, types.LayerSpec{Type: types.LayerRectangle, X: x, Y: y, Width: float64(nums[0]), Height: float64(nums[1]), Fill: fill},
			fmt.Sprintf("Perfect! I've created a rectangle with width %dpx and height %dpx.", nums[0], nums[1]))
	}
}

// insert adds the layer and reports the outcome. The dialogue is idle
// afterwards whatever happened.
func (s *Session) insert(ctx context.Context, r *Reply, spec types.LayerSpec, success string) {
	s.setPending(nil)
	id, err := s.layers.InsertLayer(ctx, spec)
	switch {
	case err == nil:
		r.LayerIDs = append(r.LayerIDs, id)
		s.say(r, RoleAssistant, success)
	case errors.Is(err, types.ErrLayerLimit):
		s.say(r, RoleAssistant, s.boardFull())
	default:
		logging.ErrorLogger.Error("layer insert failed", zap.String("type", string(spec.Type)), zap.Error(err))
		s.say(r, RoleAssistant, Apology)
	}
}

func (s *Session) boardFull() string {
	if s.maxLayers > 0 {
		return fmt.Sprintf("The board already has the maximum number of elements (%d). Remove something before adding more.", s.maxLayers)
	}
	return "The board already has the maximum number of elements. Remove something before adding more."
}

func (s *Session) say(r *Reply, role Role, content string) {
	m := Message{ID: s.newID(), Role: role, Content: content}
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	r.Messages = append(r.Messages, m)
}

func (s *Session) setPending(p Pending) {
	s.mu.Lock()
	s.pending = p
	s.mu.Unlock()
}

func (s *Session) colorOr(c *types.Color) types.Color {
	if c != nil {
		return *c
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastColor
}

// positionOr uses the supplied coordinates, falling back per axis to a
// point inside the current viewport.
func (s *Session) positionOr(x, y *float64) (float64, float64) {
	s.mu.Lock()
	cam := s.camera
	s.mu.Unlock()
	outX, outY := -cam.X+viewportOffset, -cam.Y+viewportOffset
	if x != nil {
		outX = *x
	}
	if y != nil {
		outY = *y
	}
	return outX, outY
}

// extractNumbers returns every digit run in text. Runs too large for an int
// come back as 0 so they fail the positivity check.
func extractNumbers(text string) []int {
	matches := reNumber.FindAllString(text, -1)
	nums := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			n = 0
		}
		nums = append(nums, n)
	}
	return nums
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
