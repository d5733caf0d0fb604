package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"boardai/boardai/config"
	"boardai/boardai/controllers"
	"boardai/boardai/middlewares"
)

func UserRoutes(ctrl *controllers.UserController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Get("/me", handleJSON(func(r *http.Request) (any, int, error) {
			id, ok := middlewares.UserID(r.Context())
			if !ok {
				return nil, http.StatusUnauthorized, errors.New("Unauthorized")
			}
			user, err := ctrl.GetUser(r.Context(), id)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			if user == nil {
				return nil, http.StatusNotFound, errors.New("User not found")
			}
			return user, http.StatusOK, nil
		}))
	})
	return r
}
