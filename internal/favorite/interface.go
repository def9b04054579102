package favorite

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yudhap/cinematch/internal/catalog"
	"github.com/yudhap/cinematch/internal/models"
)

// FavoriteRepoInterface defines the contract for favorite persistence.
type FavoriteRepoInterface interface {
	Create(ctx context.Context, fav *models.FavoriteMovie) error
	Delete(ctx context.Context, id, userID uint) error
	ListWithMovies(ctx context.Context, userID uint) ([]models.FavoriteMovie, error)
}

// MovieLookup finds already-materialized movies by catalog id.
type MovieLookup interface {
	FindMovieByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error)
}

// MovieResolver pulls and materializes catalog movies on first reference.
type MovieResolver interface {
	ResolveByID(ctx context.Context, tmdbID int64) (*catalog.MovieDetail, error)
	Materialize(ctx context.Context, detail *catalog.MovieDetail) (*models.Movie, []models.Genre, error)
}

// Enqueuer fires the recalculation trigger after a favorites mutation.
type Enqueuer interface {
	EnqueueRecalculation(ctx context.Context, userID uint) (string, error)
}

// RecommendationReader serves the user's current recommendation set.
type RecommendationReader interface {
	ListForUser(ctx context.Context, userID uint) ([]models.Recommendation, error)
}

// StatusReader serves queue status records for observability.
type StatusReader interface {
	Find(ctx context.Context, jobID string) (*models.QueueStatusRecord, error)
}

// ServiceInterface defines the contract for favorite business logic.
type ServiceInterface interface {
	AddFavorite(ctx context.Context, userID uint, tmdbID int64) (*models.FavoriteMovie, error)
	RemoveFavorite(ctx context.Context, userID, favoriteID uint) error
	ListFavorites(ctx context.Context, userID uint) ([]models.FavoriteMovie, error)
	ListRecommendations(ctx context.Context, userID uint) ([]models.Recommendation, error)
	GetQueueStatus(ctx context.Context, jobID string) (*models.QueueStatusRecord, error)
}

// HandlerInterface defines the contract for HTTP request handlers.
type HandlerInterface interface {
	Create(c *gin.Context)
	Delete(c *gin.Context)
	List(c *gin.Context)
	Recommendations(c *gin.Context)
	QueueStatus(c *gin.Context)
}
