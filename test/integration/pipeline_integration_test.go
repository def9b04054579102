package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudhap/cinematch/internal/ai"
	"github.com/yudhap/cinematch/internal/catalog"
	"github.com/yudhap/cinematch/internal/config"
	"github.com/yudhap/cinematch/internal/models"
	"github.com/yudhap/cinematch/internal/recommend"
	"github.com/yudhap/cinematch/internal/storage/postgres"
	"github.com/yudhap/cinematch/internal/worker"
)

const suggestionBody = `{"choices":[{"message":{"content":"{\"recommendation\":[{\"title\":\"Coherence\",\"reason\":\"similar theme\"}]}"}}]}`

func catalogHandler() http.Handler {
	details := map[string]string{
		"/movie/1": `{"id":1,"title":"Arrival","genres":[{"id":878,"name":"Science Fiction"}]}`,
		"/movie/3": `{"id":3,"title":"Coherence","genres":[{"id":878,"name":"Science Fiction"}]}`,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search/movie" {
			if strings.Contains(r.URL.Query().Get("query"), "Coherence") {
				w.Write([]byte(`{"results":[{"id":3,"title":"Coherence"}]}`))
				return
			}
			w.Write([]byte(`{"results":[]}`))
			return
		}
		if body, ok := details[r.URL.Path]; ok {
			w.Write([]byte(body))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
}

type pipelineEnv struct {
	jobs      *postgres.JobRepository
	statuses  *postgres.QueueStatusRepository
	favorites *postgres.FavoriteRepository
	recs      *postgres.RecommendationRepository
	catalog   *postgres.CatalogRepository
	queue     *recommend.QueueService
	worker    *worker.Worker
}

func newPipelineEnv(t *testing.T, catalogURL, completionURL string) *pipelineEnv {
	t.Helper()
	db := setupTestDB(t)

	env := &pipelineEnv{
		jobs:      postgres.NewJobRepository(db),
		statuses:  postgres.NewQueueStatusRepository(db),
		favorites: postgres.NewFavoriteRepository(db),
		recs:      postgres.NewRecommendationRepository(db),
		catalog:   postgres.NewCatalogRepository(db),
	}
	resolver := catalog.NewResolver(catalog.New("k", catalogURL, 5*time.Second), env.catalog)
	suggester := ai.New("sk-test", completionURL, "gpt-4o-mini", 5*time.Second)
	calc := recommend.NewCalculator(env.favorites, env.recs, resolver, suggester)
	env.queue = recommend.NewQueueService(env.jobs, env.statuses)
	env.worker = worker.NewWorker(1, env.jobs, env.statuses, calc,
		[]string{config.RecommendationQueue}, time.Minute)
	return env
}

func (e *pipelineEnv) seedFavorite(t *testing.T, userID uint, tmdbID int64, title string) {
	t.Helper()
	ctx := context.Background()
	movie, err := e.catalog.FindOrCreateMovie(ctx, &models.Movie{TMDBID: tmdbID, Title: title})
	require.NoError(t, err)
	require.NoError(t, e.favorites.Create(ctx, &models.FavoriteMovie{UserID: userID, MovieID: movie.ID}))
}

func (e *pipelineEnv) drainOne(t *testing.T) bool {
	t.Helper()
	return e.worker.ProcessOne(context.Background())
}

func TestPipeline_GenerateRecommendations(t *testing.T) {
	catalogServer := httptest.NewServer(catalogHandler())
	defer catalogServer.Close()
	completionServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(suggestionBody))
	}))
	defer completionServer.Close()

	env := newPipelineEnv(t, catalogServer.URL, completionServer.URL)
	ctx := context.Background()

	env.seedFavorite(t, 1, 1, "Arrival")

	jobID, err := env.queue.EnqueueRecalculation(ctx, 1)
	require.NoError(t, err)

	require.True(t, env.drainOne(t), "enqueued job must be claimable")

	recs, err := env.recs.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "similar theme", recs[0].Reason)

	job, err := env.jobs.Find(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, string(config.JobStatusCompleted), job.Status)

	status, err := env.statuses.Find(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, string(config.QueueStatusDone), status.Status)
	assert.Equal(t, uint(1), status.UserID)
}

// TestPipeline_RetryOnTransientFailure fails the completion service for the
// first attempt and verifies the job is redelivered, succeeds on the second
// attempt, and converges on the same final state.
func TestPipeline_RetryOnTransientFailure(t *testing.T) {
	catalogServer := httptest.NewServer(catalogHandler())
	defer catalogServer.Close()

	var calls atomic.Int32
	completionServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(suggestionBody))
	}))
	defer completionServer.Close()

	env := newPipelineEnv(t, catalogServer.URL, completionServer.URL)
	ctx := context.Background()

	env.seedFavorite(t, 1, 1, "Arrival")

	jobID, err := env.queue.EnqueueRecalculation(ctx, 1)
	require.NoError(t, err)

	// first attempt hits the 503 and goes back on the queue with backoff
	require.True(t, env.drainOne(t))

	job, err := env.jobs.Find(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, string(config.JobStatusPending), job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.True(t, job.AvailableAt.After(time.Now().UTC()), "redelivery must wait out the backoff delay")

	// open the backoff window instead of sleeping through it
	require.NoError(t, env.jobs.RetryLater(ctx, job.ID, time.Now().UTC().Add(-time.Second)))

	require.True(t, env.drainOne(t))

	job, err = env.jobs.Find(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, string(config.JobStatusCompleted), job.Status)
	assert.Equal(t, 2, job.Attempts)

	recs, err := env.recs.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	status, err := env.statuses.Find(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, string(config.QueueStatusDone), status.Status)
}

// TestPipeline_AbandonAfterExhaustedAttempts keeps the completion service
// down for every attempt. After MaxAttempts deliveries the job is failed and
// the status record reads abandoned.
func TestPipeline_AbandonAfterExhaustedAttempts(t *testing.T) {
	catalogServer := httptest.NewServer(catalogHandler())
	defer catalogServer.Close()
	completionServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer completionServer.Close()

	env := newPipelineEnv(t, catalogServer.URL, completionServer.URL)
	ctx := context.Background()

	env.seedFavorite(t, 1, 1, "Arrival")

	jobID, err := env.queue.EnqueueRecalculation(ctx, 1)
	require.NoError(t, err)

	for attempt := 1; attempt <= config.DefaultMaxAttempts; attempt++ {
		job, err := env.jobs.Find(ctx, jobID)
		require.NoError(t, err)
		if job.Status == string(config.JobStatusPending) && job.AvailableAt.After(time.Now().UTC()) {
			require.NoError(t, env.jobs.RetryLater(ctx, job.ID, time.Now().UTC().Add(-time.Second)))
		}
		require.True(t, env.drainOne(t), "attempt %d must be deliverable", attempt)
	}

	job, err := env.jobs.Find(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, string(config.JobStatusFailed), job.Status)
	assert.Equal(t, config.DefaultMaxAttempts, job.Attempts)
	assert.Contains(t, job.Error, "503")

	status, err := env.statuses.Find(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, string(config.QueueStatusAbandoned), status.Status)

	// a user whose run never succeeded keeps an empty, not corrupted, set
	recs, err := env.recs.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
