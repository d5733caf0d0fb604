package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"boardai/boardai/config"
	"boardai/boardai/controllers"
	"boardai/boardai/middlewares"
	"boardai/boardai/services/intent"
	"boardai/boardai/types"
)

// AIRoutes serves the intent endpoint. Authentication runs before the body
// is read, so an anonymous caller never reaches the model.
func AIRoutes(ctrl *controllers.IntentController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Post("/generate-shape", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.GenerateShapeRequest
			if err := decodeBody(r, &req); err != nil {
				return nil, http.StatusBadRequest, intent.NewError(intent.ErrorInvalidInput, intent.MsgMessageRequired, err)
			}
			raw, err := ctrl.GenerateShape(r.Context(), req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return raw, http.StatusOK, nil
		}))
	})
	return r
}
