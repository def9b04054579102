package recommend

import (
	"context"
	"time"

	"github.com/yudhap/cinematch/internal/ai"
	"github.com/yudhap/cinematch/internal/catalog"
	"github.com/yudhap/cinematch/internal/models"
)

// Suggester is the generative-completion collaborator.
type Suggester interface {
	Suggest(ctx context.Context, prompt string) ([]ai.Suggestion, error)
}

// MovieResolver resolves suggested titles against the catalog and
// materializes them locally.
type MovieResolver interface {
	ResolveByTitle(ctx context.Context, title string) (*catalog.MovieDetail, error)
	ResolveByID(ctx context.Context, tmdbID int64) (*catalog.MovieDetail, error)
	Materialize(ctx context.Context, detail *catalog.MovieDetail) (*models.Movie, []models.Genre, error)
}

// FavoriteStore reads the user's favorites snapshot.
type FavoriteStore interface {
	ListWithMovies(ctx context.Context, userID uint) ([]models.FavoriteMovie, error)
}

// RecommendationStore owns the user's recommendation set.
type RecommendationStore interface {
	ReplaceForUser(ctx context.Context, userID uint, recs []models.Recommendation, generatedAt time.Time) error
	ListForUser(ctx context.Context, userID uint) ([]models.Recommendation, error)
}

// JobStore appends durable jobs.
type JobStore interface {
	Enqueue(ctx context.Context, job *models.Job) error
}

// StatusStore mirrors job lifecycles for observability.
type StatusStore interface {
	Create(ctx context.Context, jobID string, userID uint) (*models.QueueStatusRecord, error)
}
