// Package llm wraps the hosted language model used to read shape requests.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"boardai/boardai/utils/logging"
)

const (
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultTemperature     = 0.3
	DefaultMaxOutputTokens = 300
)

type GeminiConfig struct {
	APIKey          string
	Model           string
	BaseURL         string
	// Temperature nil means DefaultTemperature; zero is sent as zero.
	Temperature     *float32
	MaxOutputTokens int32
	Timeout         time.Duration
	HTTPClient      *http.Client
}

// GeminiClient sends single-turn prompts to the Gemini generateContent API.
type GeminiClient struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: API key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}
	temperature := float32(DefaultTemperature)
	if cfg.Temperature != nil {
		if *cfg.Temperature < 0 {
			return nil, errors.New("gemini: temperature must not be negative")
		}
		temperature = *cfg.Temperature
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(base, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{
		client:          client,
		model:           model,
		temperature:     temperature,
		maxOutputTokens: maxTokens,
	}, nil
}

func (c *GeminiClient) Model() string { return c.model }

// Generate returns the text of the first candidate. An empty reply is not an
// error here; the caller's parser decides what to make of it.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	defer logging.LogDuration(ctx, "gemini_generate")()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.temperature),
		MaxOutputTokens:  c.maxOutputTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   intentSchema(),
	})
	if err != nil {
		logging.ErrorLogger.Error("gemini generate failed", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	return resp.Text(), nil
}

// intentSchema constrains the reply to the shape/text object. Every field is
// optional because needsDimensions replies carry only shapeType.
func intentSchema() *genai.Schema {
	number := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Description: desc}
	}
	channel := &genai.Schema{Type: genai.TypeInteger}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"actionType": {Type: genai.TypeString, Enum: []string{"shape", "text"}},
			"shapeType":  {Type: genai.TypeString, Enum: []string{"rectangle", "square", "circle"}},
			"text":       {Type: genai.TypeString},
			"width":      number("width in pixels"),
			"height":     number("height in pixels"),
			"radius":     number("circle radius in pixels"),
			"x":          number("x position"),
			"y":          number("y position"),
			"color": {
				Type:       genai.TypeObject,
				Nullable:   genai.Ptr(true),
				Properties: map[string]*genai.Schema{"r": channel, "g": channel, "b": channel},
			},
			"needsDimensions": {Type: genai.TypeBoolean},
		},
	}
}
