package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yudhap/cinematch/internal/catalog"
	"github.com/yudhap/cinematch/internal/config"
	"github.com/yudhap/cinematch/internal/favorite"
	"github.com/yudhap/cinematch/internal/logger"
	"github.com/yudhap/cinematch/internal/models"
	"github.com/yudhap/cinematch/internal/recommend"
	"github.com/yudhap/cinematch/internal/storage/postgres"
	"github.com/yudhap/cinematch/middleware"
)

func main() {
	logger.Init()
	ctx := context.Background()

	dbCfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load database config")
	}

	appCfg, err := config.LoadAppConfigFromEnv(ctx)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load app config")
	}

	db, err := postgres.ConnectDB(dbCfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Database connection failed")
	}

	if err := postgres.MigrateModels(db,
		&models.Job{}, &models.QueueStatusRecord{},
		&models.Movie{}, &models.Genre{}, &models.MovieGenre{},
		&models.FavoriteMovie{}, &models.Recommendation{},
	); err != nil {
		logger.Log.WithError(err).Fatal("Migration failed")
	}

	catalogClient := catalog.New(appCfg.TMDBAPIKey, appCfg.TMDBBaseURL, appCfg.TMDBTimeout)
	catalogRepo := postgres.NewCatalogRepository(db)
	resolver := catalog.NewResolver(catalogClient, catalogRepo)

	queueService := recommend.NewQueueService(
		postgres.NewJobRepository(db),
		postgres.NewQueueStatusRepository(db),
	)

	service := favorite.NewService(
		postgres.NewFavoriteRepository(db),
		catalogRepo,
		resolver,
		queueService,
		postgres.NewRecommendationRepository(db),
		postgres.NewQueueStatusRepository(db),
	)
	handler := favorite.NewHandler(service)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.ErrorHandler())

	router.POST("/favorites", handler.Create)
	router.GET("/favorites", handler.List)
	router.DELETE("/favorites/:id", handler.Delete)
	router.GET("/recommendations", handler.Recommendations)
	router.GET("/queue/:jobId", handler.QueueStatus)

	server := &http.Server{
		Addr:    ":" + appCfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.WithField("port", appCfg.ServerPort).Info("API server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("API server stopped")
}
