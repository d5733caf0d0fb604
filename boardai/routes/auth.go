package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"boardai/boardai/controllers"
	"boardai/boardai/types"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, http.StatusBadRequest, errors.New("Invalid request body")
		}
		token, err := ctrl.Login(r.Context(), req.Username)
		if errors.Is(err, controllers.ErrUsernameRequired) {
			return nil, http.StatusBadRequest, errors.New("Username is required")
		}
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return types.LoginResponse{Token: token}, http.StatusOK, nil
	}))
	return r
}
