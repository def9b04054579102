package favorite

import (
	"context"
	"errors"
	"net/http"

	"github.com/yudhap/cinematch/common"
	"github.com/yudhap/cinematch/internal/logger"
	"github.com/yudhap/cinematch/internal/models"
	"github.com/yudhap/cinematch/internal/storage/postgres"
	"gorm.io/gorm"
)

const (
	msgMovieNotFound  = "Movie not found in our database"
	msgAlreadyAdded   = "Already added to your favorite"
	msgFavoriteAbsent = "Favorite not found"
)

type Service struct {
	favorites FavoriteRepoInterface
	movies    MovieLookup
	resolver  MovieResolver
	queue     Enqueuer
	recs      RecommendationReader
	statuses  StatusReader
}

func NewService(favorites FavoriteRepoInterface, movies MovieLookup, resolver MovieResolver, queue Enqueuer, recs RecommendationReader, statuses StatusReader) *Service {
	return &Service{
		favorites: favorites,
		movies:    movies,
		resolver:  resolver,
		queue:     queue,
		recs:      recs,
		statuses:  statuses,
	}
}

var _ ServiceInterface = (*Service)(nil)

// AddFavorite materializes the movie on first reference, creates the
// favorite row, and enqueues exactly one recalculation job.
func (s *Service) AddFavorite(ctx context.Context, userID uint, tmdbID int64) (*models.FavoriteMovie, error) {
	movie, err := s.movies.FindMovieByTMDBID(ctx, tmdbID)
	if err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to look up movie")
	}

	if movie == nil {
		detail, err := s.resolver.ResolveByID(ctx, tmdbID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.Errf(http.StatusNotFound, "%s", msgMovieNotFound)
			}
			return nil, common.Errf(http.StatusBadGateway, "movie catalog unavailable")
		}
		movie, _, err = s.resolver.Materialize(ctx, detail)
		if err != nil {
			return nil, common.Errf(http.StatusInternalServerError, "failed to store movie")
		}
	}

	fav := models.FavoriteMovie{UserID: userID, MovieID: movie.ID}
	if err := s.favorites.Create(ctx, &fav); err != nil {
		if errors.Is(err, postgres.ErrFavoriteExists) {
			return nil, common.Errf(http.StatusBadRequest, "%s", msgAlreadyAdded)
		}
		return nil, common.Errf(http.StatusInternalServerError, "failed to create favorite")
	}
	fav.Movie = *movie

	if _, err := s.queue.EnqueueRecalculation(ctx, userID); err != nil {
		// The favorite mutation already succeeded; a lost trigger only
		// delays the next recalculation.
		logger.WithFields(map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		}).Error("AddFavorite: failed to enqueue recalculation")
	}

	return &fav, nil
}

// RemoveFavorite deletes the row and enqueues one recalculation job.
func (s *Service) RemoveFavorite(ctx context.Context, userID, favoriteID uint) error {
	if err := s.favorites.Delete(ctx, favoriteID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Errf(http.StatusNotFound, "%s", msgFavoriteAbsent)
		}
		return common.Errf(http.StatusInternalServerError, "failed to delete favorite")
	}

	if _, err := s.queue.EnqueueRecalculation(ctx, userID); err != nil {
		logger.WithFields(map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		}).Error("RemoveFavorite: failed to enqueue recalculation")
	}

	return nil
}

func (s *Service) ListFavorites(ctx context.Context, userID uint) ([]models.FavoriteMovie, error) {
	favorites, err := s.favorites.ListWithMovies(ctx, userID)
	if err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to list favorites")
	}
	return favorites, nil
}

func (s *Service) ListRecommendations(ctx context.Context, userID uint) ([]models.Recommendation, error) {
	recs, err := s.recs.ListForUser(ctx, userID)
	if err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to list recommendations")
	}
	return recs, nil
}

func (s *Service) GetQueueStatus(ctx context.Context, jobID string) (*models.QueueStatusRecord, error) {
	rec, err := s.statuses.Find(ctx, jobID)
	if err != nil {
		return nil, common.Errf(http.StatusNotFound, "queue record not found")
	}
	return rec, nil
}
