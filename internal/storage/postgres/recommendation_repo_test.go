package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yudhap/cinematch/internal/models"
)

func seedMovies(t *testing.T, repo *CatalogRepository, tmdbIDs ...int64) []models.Movie {
	t.Helper()
	ctx := context.Background()
	var out []models.Movie
	for _, id := range tmdbIDs {
		m, err := repo.FindOrCreateMovie(ctx, &models.Movie{TMDBID: id, Title: "movie"})
		require.NoError(t, err)
		out = append(out, *m)
	}
	return out
}

func TestRecommendationRepository_ReplaceForUser(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewRecommendationRepository(db)
	catalogRepo := NewCatalogRepository(db)
	ctx := context.Background()

	movies := seedMovies(t, catalogRepo, 1, 2, 3)
	now := time.Now().UTC()

	require.NoError(t, repo.ReplaceForUser(ctx, 7, []models.Recommendation{
		{MovieID: movies[0].ID, Reason: "first"},
		{MovieID: movies[1].ID, Reason: "second"},
	}, now))

	recs, err := repo.ListForUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	// a later run fully replaces the prior set
	require.NoError(t, repo.ReplaceForUser(ctx, 7, []models.Recommendation{
		{MovieID: movies[2].ID, Reason: "third"},
	}, now.Add(time.Second)))

	recs, err = repo.ListForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, movies[2].ID, recs[0].MovieID)
	assert.Equal(t, "third", recs[0].Reason)
}

func TestRecommendationRepository_ReplaceForUser_CollapsesDuplicates(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewRecommendationRepository(db)
	catalogRepo := NewCatalogRepository(db)
	ctx := context.Background()

	movies := seedMovies(t, catalogRepo, 1)

	// two AI suggestions resolving to the same catalog title
	require.NoError(t, repo.ReplaceForUser(ctx, 7, []models.Recommendation{
		{MovieID: movies[0].ID, Reason: "similar theme"},
		{MovieID: movies[0].ID, Reason: "same director"},
	}, time.Now().UTC()))

	recs, err := repo.ListForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "similar theme", recs[0].Reason, "first suggestion wins")
}

func TestRecommendationRepository_ReplaceForUser_RejectsStaleRun(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewRecommendationRepository(db)
	catalogRepo := NewCatalogRepository(db)
	ctx := context.Background()

	movies := seedMovies(t, catalogRepo, 1, 2)
	fresh := time.Now().UTC()
	stale := fresh.Add(-time.Minute)

	require.NoError(t, repo.ReplaceForUser(ctx, 7, []models.Recommendation{
		{MovieID: movies[0].ID, Reason: "fresh"},
	}, fresh))

	// a slower job with an older favorites snapshot must not win
	require.NoError(t, repo.ReplaceForUser(ctx, 7, []models.Recommendation{
		{MovieID: movies[1].ID, Reason: "stale"},
	}, stale))

	recs, err := repo.ListForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, movies[0].ID, recs[0].MovieID)
	assert.Equal(t, "fresh", recs[0].Reason)
}

func TestRecommendationRepository_ReplaceForUser_ScopedToUser(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewRecommendationRepository(db)
	catalogRepo := NewCatalogRepository(db)
	ctx := context.Background()

	movies := seedMovies(t, catalogRepo, 1, 2)
	now := time.Now().UTC()

	require.NoError(t, repo.ReplaceForUser(ctx, 1, []models.Recommendation{
		{MovieID: movies[0].ID, Reason: "for user 1"},
	}, now))
	require.NoError(t, repo.ReplaceForUser(ctx, 2, []models.Recommendation{
		{MovieID: movies[1].ID, Reason: "for user 2"},
	}, now))

	recs1, err := repo.ListForUser(ctx, 1)
	require.NoError(t, err)
	recs2, err := repo.ListForUser(ctx, 2)
	require.NoError(t, err)

	require.Len(t, recs1, 1)
	require.Len(t, recs2, 1)
	assert.Equal(t, movies[0].ID, recs1[0].MovieID)
	assert.Equal(t, movies[1].ID, recs2[0].MovieID)
}
