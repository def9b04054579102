package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yudhap/cinematch/internal/models"
)

type FavoriteServiceMock struct {
	mock.Mock
}

func (m *FavoriteServiceMock) AddFavorite(ctx context.Context, userID uint, tmdbID int64) (*models.FavoriteMovie, error) {
	args := m.Called(ctx, userID, tmdbID)

	fav, _ := args.Get(0).(*models.FavoriteMovie)
	return fav, args.Error(1)
}

func (m *FavoriteServiceMock) RemoveFavorite(ctx context.Context, userID, favoriteID uint) error {
	args := m.Called(ctx, userID, favoriteID)
	return args.Error(0)
}

func (m *FavoriteServiceMock) ListFavorites(ctx context.Context, userID uint) ([]models.FavoriteMovie, error) {
	args := m.Called(ctx, userID)

	favorites, _ := args.Get(0).([]models.FavoriteMovie)
	return favorites, args.Error(1)
}

func (m *FavoriteServiceMock) ListRecommendations(ctx context.Context, userID uint) ([]models.Recommendation, error) {
	args := m.Called(ctx, userID)

	recs, _ := args.Get(0).([]models.Recommendation)
	return recs, args.Error(1)
}

func (m *FavoriteServiceMock) GetQueueStatus(ctx context.Context, jobID string) (*models.QueueStatusRecord, error) {
	args := m.Called(ctx, jobID)

	rec, _ := args.Get(0).(*models.QueueStatusRecord)
	return rec, args.Error(1)
}
