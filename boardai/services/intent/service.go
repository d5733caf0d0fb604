package intent

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"boardai/boardai/utils/jsonutils"
	"boardai/boardai/utils/logging"
)

// Generator sends one prompt to a language model and returns its raw text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service runs the message -> prompt -> model -> object pipeline.
type Service struct {
	gen    Generator
	maxLen int
}

// NewService accepts a nil generator; every call then fails with
// ErrorMissingConfig so the server can start without a key.
func NewService(gen Generator, maxMessageLength int) *Service {
	return &Service{gen: gen, maxLen: maxMessageLength}
}

// Generate returns the model's object exactly as parsed, without checking
// which fields it carries. Failures are always *Error.
func (s *Service) Generate(ctx context.Context, message string) (json.RawMessage, error) {
	if strings.TrimSpace(message) == "" {
		return nil, NewError(ErrorInvalidInput, MsgMessageRequired, nil)
	}
	if s.maxLen > 0 && utf8.RuneCountInString(message) > s.maxLen {
		return nil, NewError(ErrorInvalidInput, MsgMessageTooLong, nil)
	}
	if s.gen == nil {
		return nil, NewError(ErrorMissingConfig, MsgMissingAPIKey, nil)
	}

	text, err := s.gen.Generate(ctx, BuildPrompt(message))
	if err != nil {
		return nil, NewError(ErrorUpstream, MsgUpstreamFailed, err)
	}
	raw, err := jsonutils.DecodeObject(text)
	if err != nil {
		logging.ErrorLogger.Error("unparseable model reply",
			zap.String("trace_id", logging.TraceID(ctx)),
			zap.Int("reply_len", len(text)),
			zap.Error(err))
		return nil, NewError(ErrorParse, MsgParseFailed, err)
	}
	return raw, nil
}

// Interpret is Generate followed by Decode.
func (s *Service) Interpret(ctx context.Context, message string) (Intent, error) {
	raw, err := s.Generate(ctx, message)
	if err != nil {
		return Intent{}, err
	}
	in, err := Decode(raw)
	if err != nil {
		return Intent{}, NewError(ErrorParse, MsgParseFailed, err)
	}
	return in, nil
}
