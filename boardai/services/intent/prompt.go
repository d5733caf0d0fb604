package intent

import (
	"fmt"
	"strings"
)

type namedColor struct {
	names string
	rgb   string
}

var colorTable = []namedColor{
	{`"red"`, "{r: 255, g: 0, b: 0}"},
	{`"blue"`, "{r: 0, g: 0, b: 255}"},
	{`"green"`, "{r: 0, g: 255, b: 0}"},
	{`"yellow"`, "{r: 255, g: 255, b: 0}"},
	{`"purple"`, "{r: 128, g: 0, b: 128}"},
	{`"orange"`, "{r: 255, g: 165, b: 0}"},
	{`"pink"`, "{r: 255, g: 192, b: 203}"},
	{`"black"`, "{r: 0, g: 0, b: 0}"},
	{`"white"`, "{r: 255, g: 255, b: 255}"},
	{`"gray" or "grey"`, "{r: 128, g: 128, b: 128}"},
}

// BuildPrompt renders the fixed instruction block with the user's request
// appended last.
func BuildPrompt(message string) string {
	return strings.Join([]string{
		"You are a helpful assistant that helps users create shapes and text on a drawing board.",
		"When a user requests a shape or text, extract the following information:",
		"",
		"For shapes (rectangle, square, circle):",
		`- actionType: "shape"`,
		`- shapeType: "rectangle", "square", or "circle"`,
		"- width: number (for rectangle and square)",
		"- height: number (for rectangle only, for square it should equal width)",
		"- radius: number (for circle, which will be used for both width and height as 2*radius)",
		`- color: object with r, g, b values (0-255) - extract from color names like "red", "blue", "green", "yellow", "purple", "orange", "pink", "black", "white", "gray", etc. If no color specified, use null.`,
		"- x: number (optional, default to 100)",
		"- y: number (optional, default to 100)",
		"",
		"For text:",
		`- actionType: "text"`,
		"- text: string (the text content to create)",
		"- color: object with r, g, b values (0-255) - extract from color names. If no color specified, use null.",
		"- x: number (optional, default to 100)",
		"- y: number (optional, default to 100)",
		"",
		"Color mapping examples:",
		colorExamples(),
		"",
		`If the user doesn't provide dimensions for a shape, respond with a JSON object that has "needsDimensions": true and "shapeType" set.`,
		"If dimensions are provided, return a JSON object with all the properties.",
		"",
		"Always respond with valid JSON only, no additional text.",
		"",
		"User request: " + message,
	}, "\n")
}

func colorExamples() string {
	lines := make([]string, 0, len(colorTable))
	for _, c := range colorTable {
		lines = append(lines, fmt.Sprintf("- %s -> %s", c.names, c.rgb))
	}
	return strings.Join(lines, "\n")
}
