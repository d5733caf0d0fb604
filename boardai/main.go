package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"boardai/boardai/config"
	"boardai/boardai/controllers"
	"boardai/boardai/middlewares"
	"boardai/boardai/routes"
	"boardai/boardai/services/intent"
	"boardai/boardai/services/llm"
	"boardai/boardai/sources/psql"
	"boardai/boardai/sources/psql/dao"
	"boardai/boardai/sources/storage"
	"boardai/boardai/utils/logging"
)

func main() {
	cfg := config.LoadConfig()
	if err := logging.InitLogger(cfg.LogDir); err != nil {
		os.Stderr.WriteString("logger init failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logging.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// A missing key is reported per request, not at startup.
	var gen intent.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:          cfg.GeminiAPIKey,
			Model:           cfg.GeminiModel,
			BaseURL:         cfg.GeminiBaseURL,
			Temperature:     &cfg.GeminiTemperature,
			MaxOutputTokens: cfg.GeminiMaxOutputTokens,
			Timeout:         cfg.GeminiTimeout,
		})
		if err != nil {
			logging.ErrorLogger.Error("gemini client error", zap.Error(err))
			os.Exit(1)
		}
		gen = gemini
		logging.AppLogger.Info("gemini configured", zap.String("model", gemini.Model()))
	} else {
		logging.AppLogger.Warn("GEMINI_API_KEY not set; shape requests will fail")
	}
	intents := intent.NewService(gen, cfg.MaxMessageLength)

	userDAO := dao.NewUserDAO(db.DB)
	layerDAO := dao.NewLayerDAO(db.DB, cfg.MaxLayers)

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	userCtrl := controllers.NewUserController(userDAO)
	intentCtrl := controllers.NewIntentController(intents)
	layerCtrl := controllers.NewLayerController(layerDAO)
	widgetCtrl := controllers.NewWidgetController(intents, layerCtrl, cfg.MaxLayers)

	var snapshotCtrl *controllers.SnapshotController
	if cfg.MinIOEndpoint != "" {
		minioClient, err := storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
			os.Exit(1)
		}
		snapshotCtrl = controllers.NewSnapshotController(layerCtrl, minioClient)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(60 * time.Second))
		api.Mount("/health", routes.HealthRoutes(controllers.NewHealthController(db.Ping)))
		api.Mount("/auth", routes.AuthRoutes(authCtrl))
		api.Mount("/users", routes.UserRoutes(userCtrl, cfg))
		api.Mount("/api/ai", routes.AIRoutes(intentCtrl, cfg))
	})
	r.Mount("/boards", routes.BoardRoutes(layerCtrl, widgetCtrl, snapshotCtrl, cfg))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
		return
	}
	logging.AppLogger.Info("server shutdown complete")
}
