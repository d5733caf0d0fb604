package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLayerSpecValidate(t *testing.T) {
	ok := LayerSpec{Type: LayerRectangle, Width: 10, Height: 20, Fill: Red}
	require.NoError(t, ok.Validate())

	cases := map[string]LayerSpec{
		"unknown type":  {Type: "triangle", Width: 1, Height: 1},
		"zero width":    {Type: LayerEllipse, Width: 0, Height: 1},
		"negative h":    {Type: LayerText, Width: 1, Height: -1},
		"color too big": {Type: LayerRectangle, Width: 1, Height: 1, Fill: Color{R: 300}},
		"color below 0": {Type: LayerRectangle, Width: 1, Height: 1, Fill: Color{B: -1}},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, spec.Validate())
		})
	}
}

func TestColorUnmarshalAcceptsFloats(t *testing.T) {
	cases := map[string]struct {
		in    string
		want  Color
		valid bool
	}{
		"integers":       {`{"r":1,"g":2,"b":3}`, Color{R: 1, G: 2, B: 3}, true},
		"integral float": {`{"r":255.0,"g":0,"b":0}`, Red, true},
		"rounded":        {`{"r":0.4,"g":127.6,"b":254.5}`, Color{R: 0, G: 128, B: 255}, true},
		"just over":      {`{"r":256,"g":0,"b":0}`, Color{R: 256}, false},
		"huge":           {`{"r":1e300,"g":0,"b":0}`, Color{R: -1}, false},
		"missing fields": {`{"b":255}`, Blue, true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var c Color
			require.NoError(t, json.Unmarshal([]byte(tc.in), &c))
			require.Equal(t, tc.want, c)
			require.Equal(t, tc.valid, c.Valid())
		})
	}

	var c Color
	require.Error(t, json.Unmarshal([]byte(`{"r":"red"}`), &c))
}
