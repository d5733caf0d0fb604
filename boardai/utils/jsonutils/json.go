package jsonutils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	reFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	reObj   = regexp.MustCompile(`(?s)\{.*\}`)

	ErrNoObject = errors.New("no JSON object found")
)

// ExtractJSON pulls the JSON block out of LLM output.
//
// Priority:
// 1. Triple-backtick fenced block (```json ... ``` or bare ```)
// 2. The span from the first '{' to the last '}'
//
// BOMs and zero-width characters are removed first. The returned string is
// empty when neither form is present.
func ExtractJSON(input string) string {
	input = strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\uFEFF' || r == '\u200B' || r == '\u200C' || r == '\u200D' {
			return -1
		}
		return r
	}, input))

	if match := reFence.FindStringSubmatch(input); len(match) > 1 {
		if obj := reObj.FindString(match[1]); obj != "" {
			return strings.TrimSpace(obj)
		}
	}
	return strings.TrimSpace(reObj.FindString(input))
}

// DecodeObject extracts the object from input and strictly decodes it. The
// span must hold exactly one JSON object, returned compacted.
func DecodeObject(input string) (json.RawMessage, error) {
	span := ExtractJSON(input)
	if span == "" {
		return nil, ErrNoObject
	}
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if obj == nil {
		return nil, ErrNoObject
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode object: trailing data after JSON object")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(span)); err != nil {
		return nil, fmt.Errorf("compact object: %w", err)
	}
	return json.RawMessage(buf.Bytes()), nil
}

// ToJSON serializes a Go value to a JSON string with indentation.
// Returns an empty string if serialization fails.
func ToJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
