package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yudhap/cinematch/internal/ai"
	"github.com/yudhap/cinematch/internal/catalog"
	"github.com/yudhap/cinematch/internal/models"
	"github.com/yudhap/cinematch/internal/recommend"
)

type SuggesterMock struct {
	mock.Mock
}

func (m *SuggesterMock) Suggest(ctx context.Context, prompt string) ([]ai.Suggestion, error) {
	args := m.Called(ctx, prompt)

	suggestions, _ := args.Get(0).([]ai.Suggestion)
	return suggestions, args.Error(1)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) ResolveByTitle(ctx context.Context, title string) (*catalog.MovieDetail, error) {
	args := m.Called(ctx, title)

	detail, _ := args.Get(0).(*catalog.MovieDetail)
	return detail, args.Error(1)
}

func (m *ResolverMock) ResolveByID(ctx context.Context, tmdbID int64) (*catalog.MovieDetail, error) {
	args := m.Called(ctx, tmdbID)

	detail, _ := args.Get(0).(*catalog.MovieDetail)
	return detail, args.Error(1)
}

func (m *ResolverMock) Materialize(ctx context.Context, detail *catalog.MovieDetail) (*models.Movie, []models.Genre, error) {
	args := m.Called(ctx, detail)

	movie, _ := args.Get(0).(*models.Movie)
	genres, _ := args.Get(1).([]models.Genre)
	return movie, genres, args.Error(2)
}

type FavoriteStoreMock struct {
	mock.Mock
}

func (m *FavoriteStoreMock) Create(ctx context.Context, fav *models.FavoriteMovie) error {
	args := m.Called(ctx, fav)
	return args.Error(0)
}

func (m *FavoriteStoreMock) Delete(ctx context.Context, id, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *FavoriteStoreMock) ListWithMovies(ctx context.Context, userID uint) ([]models.FavoriteMovie, error) {
	args := m.Called(ctx, userID)

	favorites, _ := args.Get(0).([]models.FavoriteMovie)
	return favorites, args.Error(1)
}

type RecommendationStoreMock struct {
	mock.Mock
}

func (m *RecommendationStoreMock) ReplaceForUser(ctx context.Context, userID uint, recs []models.Recommendation, generatedAt time.Time) error {
	args := m.Called(ctx, userID, recs, generatedAt)
	return args.Error(0)
}

func (m *RecommendationStoreMock) ListForUser(ctx context.Context, userID uint) ([]models.Recommendation, error) {
	args := m.Called(ctx, userID)

	recs, _ := args.Get(0).([]models.Recommendation)
	return recs, args.Error(1)
}

type MovieLookupMock struct {
	mock.Mock
}

func (m *MovieLookupMock) FindMovieByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	args := m.Called(ctx, tmdbID)

	movie, _ := args.Get(0).(*models.Movie)
	return movie, args.Error(1)
}

type EnqueuerMock struct {
	mock.Mock
}

func (m *EnqueuerMock) EnqueueRecalculation(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type CalculatorMock struct {
	mock.Mock
}

func (m *CalculatorMock) Calculate(ctx context.Context, userID uint) ([]recommend.MaterializedRecommendation, error) {
	args := m.Called(ctx, userID)

	recs, _ := args.Get(0).([]recommend.MaterializedRecommendation)
	return recs, args.Error(1)
}
