package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yudhap/cinematch/internal/ai"
	"github.com/yudhap/cinematch/internal/catalog"
	"github.com/yudhap/cinematch/internal/config"
	"github.com/yudhap/cinematch/internal/logger"
	"github.com/yudhap/cinematch/internal/models"
	"github.com/yudhap/cinematch/internal/pool"
	"github.com/yudhap/cinematch/internal/recommend"
	"github.com/yudhap/cinematch/internal/storage/postgres"
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
	suggester := ai.New(appCfg.OpenAIAPIKey, appCfg.OpenAIBaseURL, appCfg.OpenAIModel, appCfg.OpenAITimeout)

	calculator := recommend.NewCalculator(
		postgres.NewFavoriteRepository(db),
		postgres.NewRecommendationRepository(db),
		resolver,
		suggester,
	)

	workerPool := pool.NewWorkerPool(
		appCfg.MaxWorkers,
		postgres.NewJobRepository(db),
		postgres.NewQueueStatusRepository(db),
		calculator,
		config.AllowedQueues,
		appCfg.LockFor,
		appCfg.JobTimeout,
	)

	workerPool.Start()
	logger.WithField("workers", appCfg.MaxWorkers).Info("Worker pool active")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	workerPool.Stop()
	logger.Log.Info("Shutdown complete")
}
