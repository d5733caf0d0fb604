package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"boardai/boardai/config"
	"boardai/boardai/controllers"
	"boardai/boardai/middlewares"
	"boardai/boardai/sources/psql/dao"
	"boardai/boardai/types"
	"boardai/boardai/utils/logging"
)

// BoardRoutes serves the layer API, the optional snapshot export/read and the
// widget websocket. snapshots may be nil.
func BoardRoutes(layers *controllers.LayerController, widget *controllers.WidgetController, snapshots *controllers.SnapshotController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(60 * time.Second))

			api.Post("/{board_id}/layers", handleJSON(func(r *http.Request) (any, int, error) {
				userID, _ := middlewares.UserID(r.Context())
				var spec types.LayerSpec
				if err := decodeBody(r, &spec); err != nil {
					return nil, http.StatusBadRequest, errors.New("Invalid request body")
				}
				layer, err := layers.Create(r.Context(), chi.URLParam(r, "board_id"), userID, spec)
				switch {
				case errors.Is(err, types.ErrLayerLimit):
					return nil, http.StatusConflict, errors.New("Layer limit reached")
				case errors.Is(err, dao.ErrInvalidLayer):
					return nil, http.StatusBadRequest, err
				case err != nil:
					return nil, http.StatusInternalServerError, err
				}
				return layer, http.StatusCreated, nil
			}))

			api.Get("/{board_id}/layers", handleJSON(func(r *http.Request) (any, int, error) {
				list, err := layers.List(r.Context(), chi.URLParam(r, "board_id"))
				if err != nil {
					return nil, http.StatusInternalServerError, err
				}
				return list, http.StatusOK, nil
			}))

			api.Delete("/{board_id}/layers/{layer_id}", func(w http.ResponseWriter, r *http.Request) {
				err := layers.Delete(r.Context(), chi.URLParam(r, "board_id"), chi.URLParam(r, "layer_id"))
				switch {
				case errors.Is(err, controllers.ErrLayerNotFound):
					writeError(w, http.StatusNotFound, "Layer not found")
				case err != nil:
					logging.ErrorLogger.Error("delete layer failed", zap.Error(err))
					writeError(w, http.StatusInternalServerError, "Internal server error")
				default:
					w.WriteHeader(http.StatusNoContent)
				}
			})

			if snapshots != nil {
				api.Post("/{board_id}/snapshot", handleJSON(func(r *http.Request) (any, int, error) {
					res, err := snapshots.Snapshot(r.Context(), chi.URLParam(r, "board_id"))
					if err != nil {
						return nil, http.StatusInternalServerError, err
					}
					return res, http.StatusCreated, nil
				}))

				api.Get("/{board_id}/snapshots/{name}", handleJSON(func(r *http.Request) (any, int, error) {
					snap, err := snapshots.Get(r.Context(), chi.URLParam(r, "board_id"), chi.URLParam(r, "name"))
					switch {
					case errors.Is(err, types.ErrSnapshotNotFound):
						return nil, http.StatusNotFound, errors.New("Snapshot not found")
					case err != nil:
						return nil, http.StatusInternalServerError, err
					}
					return snap, http.StatusOK, nil
				}))
			}
		})

		// The websocket lives as long as the widget is open, so it sits
		// outside the request timeout.
		gr.Get("/{board_id}/chat/ws", func(w http.ResponseWriter, r *http.Request) {
			conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
			if err != nil {
				return
			}
			defer conn.CloseNow()

			userID, _ := middlewares.UserID(r.Context())
			boardID := chi.URLParam(r, "board_id")
			if err := widget.Serve(r.Context(), conn, boardID, userID); err != nil {
				logging.ErrorLogger.Error("widget session ended",
					zap.String("board_id", boardID),
					zap.Int("user_id", userID),
					zap.Error(err))
				conn.Close(websocket.StatusInternalError, "internal error")
				return
			}
			conn.Close(websocket.StatusNormalClosure, "")
		})
	})
	return r
}
