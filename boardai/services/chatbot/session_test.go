package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"boardai/boardai/services/intent"
	"boardai/boardai/types"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeIntents struct {
	mu      sync.Mutex
	replies []intent.Intent
	err     error
	calls   int
	block   chan struct{}
}

func (f *fakeIntents) Interpret(ctx context.Context, _ string) (intent.Intent, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return intent.Intent{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return intent.Intent{}, f.err
	}
	if len(f.replies) == 0 {
		return intent.Intent{}, errors.New("no scripted reply")
	}
	in := f.replies[0]
	f.replies = f.replies[1:]
	return in, nil
}

type fakeLayers struct {
	specs []types.LayerSpec
	err   error
}

func (f *fakeLayers) InsertLayer(_ context.Context, spec types.LayerSpec) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.specs = append(f.specs, spec)
	return fmt.Sprintf("layer-%d", len(f.specs)), nil
}

func ptr[T any](v T) *T { return &v }

func newTestSession(t *testing.T, intents *fakeIntents, layers *fakeLayers, opts ...Option) *Session {
	t.Helper()
	n := 0
	opts = append([]Option{WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("m%d", n)
	})}, opts...)
	s, err := NewSession(intents, layers, opts...)
	require.NoError(t, err)
	return s
}

func assistantText(r Reply) string {
	return r.Messages[len(r.Messages)-1].Content
}

func TestNewSession_Greeting(t *testing.T) {
	s := newTestSession(t, &fakeIntents{}, &fakeLayers{})
	want := []Message{{ID: "m1", Role: RoleAssistant, Content: Greeting}}
	if diff := cmp.Diff(want, s.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	require.Nil(t, s.Pending())
	require.Equal(t, "Type your message...", s.Placeholder())
}

func TestNewSession_RequiresCollaborators(t *testing.T) {
	_, err := NewSession(nil, &fakeLayers{})
	require.Error(t, err)
	_, err = NewSession(&fakeIntents{}, nil)
	require.Error(t, err)
}

func TestSend_EmptyMessageIsIgnored(t *testing.T) {
	intents := &fakeIntents{}
	s := newTestSession(t, intents, &fakeLayers{})

	_, err := s.Send(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
	require.Len(t, s.Messages(), 1)
	require.Zero(t, intents.calls)
}

func TestSend_CircleDialogue(t *testing.T) {
	intents := &fakeIntents{replies: []intent.Intent{{
		ActionType: intent.ActionShape, ShapeType: intent.ShapeCircle,
		NeedsDimensions: true, Color: &types.Blue,
	}}}
	layers := &fakeLayers{}
	s := newTestSession(t, intents, layers, WithCamera(types.Point{X: 50, Y: -30}))

	r, err := s.Send(context.Background(), "create a blue circle")
	require.NoError(t, err)
	require.Equal(t, "What radius would you like for the circle? (e.g., '50')", assistantText(r))
	require.Equal(t, AwaitingRadius{Color: types.Blue}, s.Pending())
	require.Equal(t, "Enter dimensions...", s.Placeholder())
	require.Empty(t, layers.specs)

	r, err = s.Send(context.Background(), "radius 40")
	require.NoError(t, err)
	require.Equal(t, "Great! I've created a circle with radius 40px.", assistantText(r))
	require.Equal(t, []string{"layer-1"}, r.LayerIDs)
	require.Nil(t, s.Pending())

	want := types.LayerSpec{Type: types.LayerEllipse, X: 150, Y: 230, Width: 80, Height: 80, Fill: types.Blue}
	if diff := cmp.Diff([]types.LayerSpec{want}, layers.specs); diff != "" {
		t.Fatalf("layer mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 1, intents.calls, "dimension replies are resolved locally")
	require.Len(t, s.Messages(), 5)
}

func TestSend_SquareDialogue(t *testing.T) {
	intents := &fakeIntents{replies: []intent.Intent{{ShapeType: intent.ShapeSquare, NeedsDimensions: true}}}
	layers := &fakeLayers{}
	s := newTestSession(t, intents, layers, WithLastUsedColor(types.Red))

	r, _ := s.Send(context.Background(), "a square")
	require.Equal(t, "What size would you like for the square? (e.g., '100')", assistantText(r))

	r, _ = s.Send(context.Background(), "not sure")
	require.Equal(t, "Please provide a size as a number (e.g., '100').", assistantText(r))
	require.Equal(t, AwaitingSize{Color: types.Red}, s.Pending())

	r, _ = s.Send(context.Background(), "0")
	require.Equal(t, "Please provide a valid size (a positive number).", assistantText(r))
	require.NotNil(t, s.Pending())

	r, _ = s.Send(context.Background(), "120")
	require.Equal(t, "Perfect! I've created a square with size 120px.", assistantText(r))
	require.Len(t, layers.specs, 1)
	require.Equal(t, types.LayerRectangle, layers.specs[0].Type)
	require.Equal(t, 120.0, layers.specs[0].Width)
	require.Equal(t, 120.0, layers.specs[0].Height)
	require.Equal(t, types.Red, layers.specs[0].Fill)
}

func TestSend_RectangleDialogue(t *testing.T) {
	intents := &fakeIntents{replies: []intent.Intent{{ShapeType: intent.ShapeRectangle, NeedsDimensions: true}}}
	layers := &fakeLayers{}
	s := newTestSession(t, intents, layers)

	_, _ = s.Send(context.Background(), "rectangle")

	r, _ := s.Send(context.Background(), "200")
	require.Equal(t, "Please provide both width and height as two numbers (e.g., '200 150').", assistantText(r))

	r, _ = s.Send(context.Background(), "200 by 0")
	require.Equal(t, "Please provide valid dimensions (two positive numbers).", assistantText(r))
	require.Empty(t, layers.specs)

	r, _ = s.Send(context.Background(), "width 200, height 150, depth 9")
	require.Equal(t, "Perfect! I've created a rectangle with width 200px and height 150px.", assistantText(r))
	require.Equal(t, 200.0, layers.specs[0].Width)
	require.Equal(t, 150.0, layers.specs[0].Height)
	require.Equal(t, types.Black, layers.specs[0].Fill)
	require.Nil(t, s.Pending())
}

func TestSend_RadiusRejectsMissingNumber(t *testing.T) {
	intents := &fakeIntents{replies: []intent.Intent{{ShapeType: intent.ShapeCircle, NeedsDimensions: true}}}
	s := newTestSession(t, intents, &fakeLayers{})
	_, _ = s.Send(context.Background(), "circle")

	r, _ := s.Send(context.Background(), "big")
	require.Equal(t, "Please provide a valid radius (a positive number).", assistantText(r))
	require.Equal(t, AwaitingRadius{}, s.Pending())
}

func TestSend_CompleteShapes(t *testing.T) {
	tests := []struct {
		name   string
		in     intent.Intent
		reply  string
		layer  types.LayerSpec
		camera types.Point
	}{
		{
			name:  "rectangle with position",
			in:    intent.Intent{ActionType: "shape", ShapeType: "rectangle", Width: ptr(300.0), Height: ptr(120.0), X: ptr(10.0), Y: ptr(20.0), Color: &types.Red},
			reply: "Perfect! I've created a rectangle with width 300px and height 120px.",
			layer: types.LayerSpec{Type: types.LayerRectangle, X: 10, Y: 20, Width: 300, Height: 120, Fill: types.Red},
		},
		{
			name:  "square with only width",
			in:    intent.Intent{ActionType: "shape", ShapeType: "square", Width: ptr(80.0)},
			reply: "Perfect! I've created a square with width 80px and height 80px.",
			layer: types.LayerSpec{Type: types.LayerRectangle, X: 200, Y: 200, Width: 80, Height: 80},
		},
		{
			name:  "circle from radius",
			in:    intent.Intent{ActionType: "shape", ShapeType: "circle", Radius: ptr(25.5)},
			reply: "Great! I've created a circle with radius 25.5px.",
			layer: types.LayerSpec{Type: types.LayerEllipse, X: 200, Y: 200, Width: 51, Height: 51},
		},
		{
			name:   "circle without size uses defaults and camera",
			in:     intent.Intent{ActionType: "shape", ShapeType: "circle", X: ptr(5.0)},
			reply:  "Great! I've created a circle with radius 50px.",
			layer:  types.LayerSpec{Type: types.LayerEllipse, X: 5, Y: -100, Width: 100, Height: 100},
			camera: types.Point{X: 1000, Y: 300},
		},
		{
			name:  "text",
			in:    intent.Intent{ActionType: "text", Text: "Hello World", Color: &types.Blue},
			reply: `Perfect! I've created text "Hello World" on the board.`,
			layer: types.LayerSpec{Type: types.LayerText, X: 200, Y: 200, Width: 200, Height: 100, Fill: types.Blue, Value: "Hello World"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			layers := &fakeLayers{}
			s := newTestSession(t, &fakeIntents{replies: []intent.Intent{tc.in}}, layers, WithCamera(tc.camera))
			r, err := s.Send(context.Background(), "do it")
			require.NoError(t, err)
			require.Equal(t, tc.reply, assistantText(r))
			if diff := cmp.Diff([]types.LayerSpec{tc.layer}, layers.specs); diff != "" {
				t.Fatalf("layer mismatch (-want +got):\n%s", diff)
			}
			require.Nil(t, s.Pending())
		})
	}
}

// rawIntents decodes scripted model objects the same way the HTTP pipeline
// does.
type rawIntents struct{ replies []string }

func (f *rawIntents) Interpret(_ context.Context, _ string) (intent.Intent, error) {
	if len(f.replies) == 0 {
		return intent.Intent{}, errors.New("no scripted reply")
	}
	raw := f.replies[0]
	f.replies = f.replies[1:]
	return intent.Decode(json.RawMessage(raw))
}

func TestSend_BlueCircleWithRadius(t *testing.T) {
	layers := &fakeLayers{}
	s, err := NewSession(&rawIntents{replies: []string{
		`{"actionType":"shape","shapeType":"circle","radius":50,"color":{"r":0,"g":0,"b":255},"needsDimensions":false}`,
	}}, layers)
	require.NoError(t, err)

	r, err := s.Send(context.Background(), "create a blue circle 50")
	require.NoError(t, err)
	require.Equal(t, "Great! I've created a circle with radius 50px.", assistantText(r))
	require.Nil(t, s.Pending())
	require.Len(t, r.LayerIDs, 1)
	if diff := cmp.Diff([]types.LayerSpec{{Type: types.LayerEllipse, X: 200, Y: 200, Width: 100, Height: 100, Fill: types.Blue}}, layers.specs); diff != "" {
		t.Fatalf("layer mismatch (-want +got):\n%s", diff)
	}
}

func TestSend_FloatColorChannels(t *testing.T) {
	layers := &fakeLayers{}
	s, err := NewSession(&rawIntents{replies: []string{
		`{"actionType":"shape","shapeType":"rectangle","width":200,"height":150,"color":{"r":255.0,"g":0,"b":0}}`,
	}}, layers)
	require.NoError(t, err)

	r, err := s.Send(context.Background(), "create a red rectangle 200 by 150")
	require.NoError(t, err)
	require.Equal(t, "Perfect! I've created a rectangle with width 200px and height 150px.", assistantText(r))
	require.Len(t, layers.specs, 1)
	require.Equal(t, types.Red, layers.specs[0].Fill)
}

func TestSend_UnknownShape(t *testing.T) {
	layers := &fakeLayers{}
	s := newTestSession(t, &fakeIntents{replies: []intent.Intent{
		{ShapeType: "hexagon", NeedsDimensions: true},
		{ShapeType: "triangle", Width: ptr(10.0)},
	}}, layers)

	r, _ := s.Send(context.Background(), "hexagon")
	require.Equal(t, unknownShape, assistantText(r))
	require.Nil(t, s.Pending())

	r, _ = s.Send(context.Background(), "triangle")
	require.Equal(t, unknownShape, assistantText(r))
	require.Empty(t, layers.specs)
}

func TestSend_IntentErrorResetsToIdle(t *testing.T) {
	intents := &fakeIntents{err: errors.New("upstream down")}
	s := newTestSession(t, intents, &fakeLayers{})

	r, err := s.Send(context.Background(), "circle")
	require.NoError(t, err)
	require.Equal(t, Apology, assistantText(r))
	require.Len(t, r.Messages, 2)
	require.Equal(t, RoleUser, r.Messages[0].Role)
	require.Nil(t, s.Pending())
}

func TestSend_LayerLimit(t *testing.T) {
	intents := &fakeIntents{replies: []intent.Intent{{ShapeType: intent.ShapeCircle, NeedsDimensions: true}}}
	layers := &fakeLayers{err: fmt.Errorf("insert: %w", types.ErrLayerLimit)}
	s := newTestSession(t, intents, layers, WithMaxLayers(100))

	_, _ = s.Send(context.Background(), "circle")
	r, _ := s.Send(context.Background(), "50")
	require.Equal(t, "The board already has the maximum number of elements (100). Remove something before adding more.", assistantText(r))
	require.Empty(t, r.LayerIDs)
	require.Nil(t, s.Pending())
}

func TestSend_InsertFailure(t *testing.T) {
	intents := &fakeIntents{replies: []intent.Intent{{ActionType: "text", Text: "hi"}}}
	s := newTestSession(t, intents, &fakeLayers{err: errors.New("db gone")})

	r, _ := s.Send(context.Background(), "add text hi")
	require.Equal(t, Apology, assistantText(r))
}

func TestClose_DropsPending(t *testing.T) {
	intents := &fakeIntents{replies: []intent.Intent{
		{ShapeType: intent.ShapeCircle, NeedsDimensions: true},
		{ActionType: "text", Text: "50"},
	}}
	layers := &fakeLayers{}
	s := newTestSession(t, intents, layers)

	_, _ = s.Send(context.Background(), "circle")
	require.NotNil(t, s.Pending())
	s.Close()
	require.Nil(t, s.Pending())

	r, _ := s.Send(context.Background(), "50")
	require.Equal(t, `Perfect! I've created text "50" on the board.`, assistantText(r))
	require.Equal(t, 2, intents.calls, "after close a number is a fresh message")
	require.Equal(t, types.LayerText, layers.specs[0].Type)
}

func TestSend_OneInFlight(t *testing.T) {
	intents := &fakeIntents{
		replies: []intent.Intent{{ActionType: "text", Text: "a"}},
		block:   make(chan struct{}),
	}
	s := newTestSession(t, intents, &fakeLayers{})

	done := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), "first")
		done <- err
	}()
	require.Eventually(t, s.Busy, timeout, tick)

	_, err := s.Send(context.Background(), "second")
	require.ErrorIs(t, err, ErrBusy)

	close(intents.block)
	require.NoError(t, <-done)
	require.False(t, s.Busy())
	require.Equal(t, 1, intents.calls)
}

func TestSetLastUsedColor(t *testing.T) {
	green := types.Color{G: 128}
	layers := &fakeLayers{}
	s := newTestSession(t, &fakeIntents{replies: []intent.Intent{{ActionType: "text", Text: "x"}}}, layers)
	s.SetLastUsedColor(green)
	s.SetCamera(types.Point{X: -100, Y: -100})

	_, _ = s.Send(context.Background(), "text x")
	require.Equal(t, green, layers.specs[0].Fill)
	require.Equal(t, 300.0, layers.specs[0].X)
}

func TestExtractNumbers(t *testing.T) {
	require.Equal(t, []int{200, 150}, extractNumbers("200x150"))
	require.Equal(t, []int{3, 14}, extractNumbers("3.14"))
	require.Equal(t, []int{5}, extractNumbers("-5"))
	require.Empty(t, extractNumbers("none"))
	require.Equal(t, []int{0}, extractNumbers("99999999999999999999999"))
}
