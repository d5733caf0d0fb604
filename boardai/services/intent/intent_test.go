package intent

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"boardai/boardai/types"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("create a red rectangle")
	require.True(t, strings.HasSuffix(p, "User request: create a red rectangle"))
	require.Contains(t, p, `"needsDimensions": true`)
	require.Contains(t, p, `- "orange" -> {r: 255, g: 165, b: 0}`)
	require.Contains(t, p, `- "gray" or "grey" -> {r: 128, g: 128, b: 128}`)
	require.Contains(t, p, "Always respond with valid JSON only")
}

func TestDecode_CompleteShape(t *testing.T) {
	in, err := Decode(json.RawMessage(`{"actionType":"shape","shapeType":"circle","radius":50,"color":{"r":0,"g":0,"b":255},"x":10,"y":20}`))
	require.NoError(t, err)
	require.Equal(t, ActionShape, in.ActionType)
	require.Equal(t, ShapeCircle, in.ShapeType)
	require.Equal(t, 50.0, *in.Radius)
	require.Nil(t, in.Width)
	require.Equal(t, types.Blue, *in.Color)
	require.Equal(t, 10.0, *in.X)
}

func TestDecode_FloatColorChannels(t *testing.T) {
	in, err := Decode(json.RawMessage(`{"actionType":"shape","shapeType":"rectangle","width":200,"height":150,"color":{"r":255.0,"g":0,"b":0}}`))
	require.NoError(t, err)
	require.Equal(t, types.Red, *in.Color)
}

func TestDecode_NullColorAndUnknownFields(t *testing.T) {
	in, err := Decode(json.RawMessage(`{"needsDimensions":true,"shapeType":"rectangle","color":null,"confidence":0.9}`))
	require.NoError(t, err)
	require.True(t, in.NeedsDimensions)
	require.Nil(t, in.Color)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode(json.RawMessage(`{"color":{"r":999,"g":0,"b":0}}`))
	require.Error(t, err)

	_, err = Decode(json.RawMessage(`{"width":"wide"}`))
	require.Error(t, err)
}

func TestFloat(t *testing.T) {
	v := 42.0
	zero := 0.0
	require.Equal(t, 42.0, Float(&v, 100))
	require.Equal(t, 100.0, Float(nil, 100))
	require.Equal(t, 100.0, Float(&zero, 100))
}

func TestErrorStatusAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(ErrorUpstream, MsgUpstreamFailed, cause)
	require.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	require.True(t, errors.Is(err, cause))
	require.Contains(t, err.Error(), "UPSTREAM_ERROR")

	require.Equal(t, http.StatusBadRequest, NewError(ErrorInvalidInput, MsgMessageRequired, nil).HTTPStatus())

	var e *Error
	require.Equal(t, "", e.Error())
	require.Nil(t, e.Unwrap())
}
