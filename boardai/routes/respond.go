package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"boardai/boardai/services/intent"
	"boardai/boardai/types"
	"boardai/boardai/utils/logging"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}

// handleJSON writes the handler's result as JSON. Errors become
// {"error": ...}; a 5xx never exposes err itself.
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			msg := err.Error()
			var ie *intent.Error
			if errors.As(err, &ie) {
				status, msg = ie.HTTPStatus(), ie.Message
			}
			if status >= http.StatusInternalServerError {
				logging.ErrorLogger.Error("request failed",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Error(err))
				if ie == nil {
					msg = intent.MsgInternalError
				}
			}
			writeError(w, status, msg)
			return
		}
		writeJSON(w, status, res)
	}
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(v)
}
